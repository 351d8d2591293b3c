// Package json streams listing objects out of an envelope document of the form
//
//	{"Items": [ {...}, {...} ], ...}
//
// one element at a time, without materializing the whole array.
package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultKey is the envelope field holding the listing array.
const DefaultKey = "Items"

var (
	// ErrNoEnvelope is returned when the root object has no field named key.
	ErrNoEnvelope = errors.New("json: envelope key not found")

	// ErrDuplicateEnvelope is returned when the root object names key twice.
	ErrDuplicateEnvelope = errors.New("json: envelope key repeated")
)

// StreamRecords decodes the root object from r and calls emit for every object
// element of the array stored under key (DefaultKey when empty).
//
// Streaming behavior:
//   - The root must be a JSON object; anything else is an error.
//   - Fields other than key are skipped token by token.
//   - A second field named key is an error.
//   - null elements are emitted as a nil map; any other non-object element
//     is an error.
//   - line is the 1-based index of the emitted object within the array.
//   - Numbers are decoded as json.Number so identifiers keep their exact text.
//
// onParseErr, when non-nil, is called with the line that failed to decode
// before StreamRecords returns the error. An error returned by emit stops the
// stream and is returned as-is.
func StreamRecords(
	ctx context.Context,
	r io.Reader,
	key string,
	emit func(line int, obj map[string]any) error,
	onParseErr func(line int, err error),
) error {
	if key == "" {
		key = DefaultKey
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	reportErr := func(line int, err error) {
		if onParseErr != nil {
			onParseErr(line, err)
		}
	}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		reportErr(0, err)
		return fmt.Errorf("json: read first token: %w", err)
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("json: unsupported root token %v (want object)", tok)
	}

	found := false
	line := 0
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			reportErr(line+1, err)
			return fmt.Errorf("json: read object key: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("json: object key not a string (got %T)", keyTok)
		}

		if name == key && found {
			return fmt.Errorf("%w: %q", ErrDuplicateEnvelope, key)
		}
		if name != key {
			if err := skipNextValue(dec); err != nil {
				reportErr(line+1, err)
				return err
			}
			continue
		}
		found = true

		valTok, err := dec.Token()
		if err != nil {
			reportErr(line+1, err)
			return fmt.Errorf("json: read %q value: %w", key, err)
		}
		if valTok != json.Delim('[') {
			return fmt.Errorf("json: %q is not an array (got %v)", key, valTok)
		}
		if err := streamArrayOfObjects(ctx, dec, emit, reportErr, &line); err != nil {
			return err
		}
		end, err := dec.Token()
		if err != nil {
			return fmt.Errorf("json: read %q array end: %w", key, err)
		}
		if end != json.Delim(']') {
			return fmt.Errorf("json: expected ']' after %q array, got %v", key, end)
		}
	}

	end, err := dec.Token()
	if err != nil {
		reportErr(line+1, err)
		return fmt.Errorf("json: read object end: %w", err)
	}
	if end != json.Delim('}') {
		return fmt.Errorf("json: expected object end '}', got %v", end)
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNoEnvelope, key)
	}

	// Anything after the root object means the document is not well-formed.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after root object")
		}
		reportErr(line+1, err)
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// streamArrayOfObjects streams elements of the current array (after '[' has been consumed).
func streamArrayOfObjects(
	ctx context.Context,
	dec *json.Decoder,
	emit func(line int, obj map[string]any) error,
	reportErr func(line int, err error),
	line *int,
) error {
	for dec.More() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			reportErr(*line+1, err)
			return fmt.Errorf("json: decode array element: %w", err)
		}
		obj, ok := raw.(map[string]any)
		if !ok && raw != nil {
			err := fmt.Errorf("json: array element not an object (got %T)", raw)
			reportErr(*line+1, err)
			return err
		}
		*line++
		if err := emit(*line, obj); err != nil {
			return err
		}
	}
	return nil
}

// skipNextValue skips the next JSON value from the decoder, without materializing it.
func skipNextValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("json: skip value token: %w", err)
	}
	return skipValueFromFirstToken(dec, tok)
}

func skipValueFromFirstToken(dec *json.Decoder, tok any) error {
	d, ok := tok.(json.Delim)
	if !ok {
		// scalar token; nothing else to consume
		return nil
	}

	var want json.Delim
	switch d {
	case '{':
		want = '}'
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return fmt.Errorf("json: skip object key: %w", err)
			}
			if err := skipNextValue(dec); err != nil {
				return err
			}
		}
	case '[':
		want = ']'
		for dec.More() {
			if err := skipNextValue(dec); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("json: unexpected delimiter %q", d)
	}

	end, err := dec.Token()
	if err != nil {
		return fmt.Errorf("json: skip value end: %w", err)
	}
	if end != want {
		return fmt.Errorf("json: expected %q, got %v", want, end)
	}
	return nil
}
