package weather

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// HeaderLines is the number of boilerplate lines that open every download.
const HeaderLines = 3

// Parse decodes a Latin-1 station download into raw readings, in input order.
// The first HeaderLines lines are always skipped and blank lines are ignored.
// Any row with the wrong number of tokens, or any token that does not fit its
// column kind, fails the whole parse.
func Parse(raw []byte) ([]RawReading, error) {
	dec := charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
	sc := bufio.NewScanner(dec)

	var out []RawReading
	line := 0
	for sc.Scan() {
		line++
		if line <= HeaderLines {
			continue
		}
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		r, err := parseRow(line, tokens)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: read: %w", StageParse, err)
	}
	return out, nil
}

func parseRow(line int, tokens []string) (RawReading, error) {
	if len(tokens) != RawColumnCount {
		return RawReading{}, &RowError{
			Stage: StageParse,
			Row:   line,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(tokens), RawColumnCount),
		}
	}

	var r RawReading
	for i, col := range rawColumns {
		tok := tokens[i]
		switch col.Kind {
		case KindText:
			if col.Name == ColDate {
				r.Date = tok
			} else {
				r.Time = tok
			}
		case KindCompass:
			*r.compassField(col.Name) = CompassCode(tok)
		case KindReal:
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return RawReading{}, invalidToken(line, col, tok)
			}
			*r.realField(col.Name) = v
		case KindInteger:
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return RawReading{}, invalidToken(line, col, tok)
			}
			*r.intField(col.Name) = v
		}
	}
	return r, nil
}

func invalidToken(line int, col Column, tok string) error {
	return &RowError{
		Stage:  StageParse,
		Row:    line,
		Column: col.Name,
		Value:  tok,
		Err:    fmt.Errorf("%w: not %s", ErrInvalidValue, col.Kind),
	}
}
