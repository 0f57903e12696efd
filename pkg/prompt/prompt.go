package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/HavvokLab/solix-setup/schema"
)

// Prompter asks for form fields on a line based terminal.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out}
}

// Ask renders errors and placeholders, then reads one line per field. An
// empty line keeps the field default.
func (p *Prompter) Ask(fields []schema.Field, errs, placeholders map[string]string) (map[string]any, error) {
	p.printMessages(errs, placeholders)

	values := make(map[string]any, len(fields))
	for _, f := range fields {
		for {
			line, err := p.readField(f, errs[f.Key])
			if err != nil {
				return nil, err
			}

			v, err := parse(f, line)
			if err != nil {
				fmt.Fprintf(p.out, "  ! %v\n", err)
				continue
			}
			if v != nil {
				values[f.Key] = v
			}
			break
		}
	}

	return values, nil
}

func (p *Prompter) printMessages(errs, placeholders map[string]string) {
	for _, k := range sortedKeys(errs) {
		fmt.Fprintf(p.out, "error %s: %s\n", k, errs[k])
	}
	for _, k := range sortedKeys(placeholders) {
		fmt.Fprintf(p.out, "  %s: %s\n", k, placeholders[k])
	}
}

func (p *Prompter) readField(f schema.Field, fieldErr string) (string, error) {
	label := f.Key
	if f.Unit != "" {
		label += " (" + f.Unit + ")"
	}
	if len(f.Options) > 0 {
		label += " [" + strings.Join(f.Options, ", ") + "]"
	}
	if f.Min != nil && f.Max != nil {
		label += fmt.Sprintf(" %g..%g", *f.Min, *f.Max)
	}
	if def := defaultValue(f); def != nil && f.InputType != "password" {
		label += fmt.Sprintf(" {%v}", def)
	}
	if fieldErr != "" {
		label += " <" + fieldErr + ">"
	}
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func defaultValue(f schema.Field) any {
	if f.Default != nil {
		return f.Default
	}
	return f.SuggestedValue
}

func parse(f schema.Field, line string) (any, error) {
	if line == "" {
		return defaultValue(f), nil
	}

	switch f.Kind {
	case schema.KindNumber:
		return strconv.ParseFloat(line, 64)
	case schema.KindInteger:
		return strconv.Atoi(line)
	case schema.KindBoolean:
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return strconv.ParseBool(line)
	case schema.KindSelect:
		if !f.Multiple {
			return line, nil
		}
		if line == "-" {
			return []string{}, nil
		}
		var out []string
		for _, item := range strings.Split(line, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	default:
		return line, nil
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
