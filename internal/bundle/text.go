package bundle

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const (
	textSuffix = ",eval);"
)

// textPrefix is everything written before the definitions array.
func textPrefix() string {
	return "(" + LoaderSource + ")(\n"
}

// Write emits the bundle text for enc.
func Write(w io.Writer, enc *Encoded) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(textPrefix()); err != nil {
		return err
	}

	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i, def := range enc.Definitions {
		data, err := json.Marshal(def)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := bw.WriteString(","); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n],\n"); err != nil {
		return err
	}

	params, err := json.Marshal(enc.Params)
	if err != nil {
		return err
	}
	if _, err := bw.Write(params); err != nil {
		return err
	}
	if _, err := bw.WriteString(textSuffix + "\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// String returns the bundle text for enc.
func String(enc *Encoded) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, enc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Parse reads back text produced by Write with the loader of this build.
func Parse(text string) (*Encoded, error) {
	body, ok := strings.CutPrefix(text, textPrefix())
	if !ok {
		return nil, &ParseError{Reason: "text does not start with the bundle loader"}
	}
	body, ok = strings.CutSuffix(strings.TrimRight(body, " \t\r\n"), textSuffix)
	if !ok {
		return nil, &ParseError{Reason: "text does not end with the loader invocation"}
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var enc Encoded
	if err := dec.Decode(&enc.Definitions); err != nil {
		return nil, &ParseError{Reason: "definitions: " + err.Error()}
	}

	rest := strings.TrimLeft(body[dec.InputOffset():], " \t\r\n")
	rest, ok = strings.CutPrefix(rest, ",")
	if !ok {
		return nil, &ParseError{Reason: "missing separator between definitions and parameters"}
	}

	dec = json.NewDecoder(strings.NewReader(rest))
	if err := dec.Decode(&enc.Params); err != nil {
		return nil, &ParseError{Reason: "parameters: " + err.Error()}
	}
	if strings.TrimSpace(rest[dec.InputOffset():]) != "" {
		return nil, &ParseError{Reason: "unexpected content after parameters"}
	}

	return &enc, nil
}
