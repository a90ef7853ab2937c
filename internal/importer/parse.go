package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/packtracker/internal/models"
)

// ErrNoItems means a feed parsed cleanly but produced nothing to import
var ErrNoItems = errors.New("no items parsed")

// Parse reads an import feed for kind. Files named *.json are arrays of
// objects, optionally nested under the jsonpath expression root; anything
// else is one comma separated record per line.
func Parse(filename string, data []byte, kind models.ItemKind, root string) ([]models.ImportRecord, error) {
	var (
		recs []models.ImportRecord
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		recs, err = parseJSON(data, kind, root)
		if err != nil {
			return nil, err
		}
	} else {
		recs = ParseLines(string(data), kind)
	}

	if len(recs) == 0 {
		return nil, ErrNoItems
	}
	return recs, nil
}

// field names tried in order for each record attribute
var (
	cardNameFields   = []string{"name", "cardName", "title"}
	sealedNameFields = []string{"name", "title"}
	numberFields     = []string{"number", "no"}
	costFields       = []string{"cost", "price"}
	imageFields      = []string{"image", "photo", "img"}
)

func parseJSON(data []byte, kind models.ItemKind, root string) ([]models.ImportRecord, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode import feed: %w", err)
	}

	if root = strings.TrimSpace(root); root != "" {
		selected, err := jsonpath.Get(root, doc)
		if err != nil {
			return nil, fmt.Errorf("select %q: %w", root, err)
		}
		// a path can yield the array itself or a one-element list holding it
		if list, ok := selected.([]any); ok && len(list) == 1 {
			if inner, ok := list[0].([]any); ok {
				selected = inner
			}
		}
		doc = selected
	}

	rows, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("import feed is not an array: %w", ErrNoItems)
	}

	nameFields := cardNameFields
	if kind == models.ItemSealed {
		nameFields = sealedNameFields
	}

	var out []models.ImportRecord
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		rec := models.ImportRecord{
			Name:  strings.TrimSpace(firstString(obj, nameFields)),
			Cost:  looseDecimal(firstString(obj, costFields)),
			Image: strings.TrimSpace(firstString(obj, imageFields)),
		}
		if rec.Name == "" {
			continue
		}
		if kind == models.ItemCards {
			rec.Number = looseInt(firstString(obj, numberFields))
		}
		out = append(out, rec)
	}
	return out, nil
}

// firstString returns the first non-empty field, stringified
func firstString(obj map[string]any, fields []string) string {
	for _, f := range fields {
		switch v := obj[f].(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		case bool:
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// layout is one candidate column order for comma separated lines. match
// validates the columns structurally before the layout is accepted.
type layout struct {
	name  string
	match func(cols []string) bool
	build func(cols []string) models.ImportRecord
}

var cardLayouts = []layout{
	{
		name: "name,number,price,image",
		match: func(c []string) bool {
			return !isInt(c[0]) && isInt(c[1]) && (len(c) < 3 || isPrice(c[2]))
		},
		build: func(c []string) models.ImportRecord {
			return models.ImportRecord{Name: c[0], Number: looseInt(c[1]), Cost: looseDecimal(col(c, 2)), Image: col(c, 3)}
		},
	},
	{
		name: "number,name,price,image",
		match: func(c []string) bool {
			return isInt(c[0]) && !isPrice(c[1]) && (len(c) < 3 || isPrice(c[2]))
		},
		build: func(c []string) models.ImportRecord {
			return models.ImportRecord{Name: c[1], Number: looseInt(c[0]), Cost: looseDecimal(col(c, 2)), Image: col(c, 3)}
		},
	},
	{
		name: "name,price,image",
		match: func(c []string) bool {
			return !isPrice(c[0]) && isPrice(c[1]) && (len(c) < 3 || !isPrice(c[2]))
		},
		build: func(c []string) models.ImportRecord {
			return models.ImportRecord{Name: c[0], Cost: looseDecimal(c[1]), Image: col(c, 2)}
		},
	},
}

var sealedLayouts = []layout{
	{
		name: "name,price,image",
		match: func(c []string) bool {
			return !isPrice(c[0]) && isPrice(c[1])
		},
		build: func(c []string) models.ImportRecord {
			return models.ImportRecord{Name: c[0], Cost: looseDecimal(c[1]), Image: col(c, 2)}
		},
	},
	{
		name: "price,name,image",
		match: func(c []string) bool {
			return isPrice(c[0]) && !isPrice(c[1])
		},
		build: func(c []string) models.ImportRecord {
			return models.ImportRecord{Name: c[1], Cost: looseDecimal(c[0]), Image: col(c, 2)}
		},
	},
}

// positional is the fallback when no layout validates: the plain column
// order with lenient numbers, so no line with a name is lost.
func positional(kind models.ItemKind, c []string) models.ImportRecord {
	if kind == models.ItemSealed {
		return models.ImportRecord{Name: c[0], Cost: looseDecimal(c[1]), Image: col(c, 2)}
	}
	return models.ImportRecord{Name: c[0], Number: looseInt(c[1]), Cost: looseDecimal(col(c, 2)), Image: col(c, 3)}
}

// ParseLines reads one record per non-blank line. Lines with fewer than two
// columns are dropped; the first layout whose columns validate wins.
func ParseLines(text string, kind models.ItemKind) []models.ImportRecord {
	layouts := cardLayouts
	if kind == models.ItemSealed {
		layouts = sealedLayouts
	}

	var out []models.ImportRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cols := strings.Split(line, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if len(cols) < 2 {
			continue
		}

		rec, ok := models.ImportRecord{}, false
		for _, l := range layouts {
			if l.match(cols) {
				rec, ok = l.build(cols), true
				break
			}
		}
		if !ok {
			rec = positional(kind, cols)
		}
		if rec.Name == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func col(c []string, i int) string {
	if i < len(c) {
		return c[i]
	}
	return ""
}

var (
	intPattern   = regexp.MustCompile(`^[+-]?\d+$`)
	pricePattern = regexp.MustCompile(`^[+-]?\$?\s*(\d+(\.\d*)?|\.\d+)$`)
	leadingNum   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
)

func isInt(s string) bool { return intPattern.MatchString(s) }

func isPrice(s string) bool { return pricePattern.MatchString(s) }

// looseDecimal reads the leading number of s after dropping a currency
// sign; anything unreadable is zero.
func looseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.Replace(s, "$", "", 1))
	m := leadingNum.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	m = strings.TrimSuffix(strings.TrimPrefix(m, "+"), ".")
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	} else if strings.HasPrefix(m, "-.") {
		m = "-0" + m[1:]
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func looseInt(s string) int {
	return int(looseDecimal(s).IntPart())
}
