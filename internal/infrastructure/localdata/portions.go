package localdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/renaltrack/backend/internal/domain"
)

// maxPortionHits caps how many local reference portions one lookup returns.
const maxPortionHits = 6

// portionRow is one row of the local portion reference CSV
// (food_description, measure_description, number_of_servings, gram_weight).
type portionRow struct {
	FoodDescription    string
	MeasureDescription string
	NumberOfServings   string
	GramWeight         float64
}

// PortionRef is a read-only portion reference backed by a local CSV,
// used when neither the food record nor an alternate search yields
// portions. Loaded once at startup.
type PortionRef struct {
	rows []portionRow
}

// LoadPortionRef reads the reference CSV. A missing file yields an
// empty reference, not an error.
func LoadPortionRef(path string) (*PortionRef, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PortionRef{}, nil
		}
		return nil, fmt.Errorf("open portion reference: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read portion reference: %w", err)
	}
	if len(records) == 0 {
		return &PortionRef{}, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}

	ref := &PortionRef{}
	for _, rec := range records[1:] {
		gw, err := strconv.ParseFloat(strings.TrimSpace(field(rec, col, "gram_weight")), 64)
		if err != nil || gw <= 0 {
			continue
		}
		ref.rows = append(ref.rows, portionRow{
			FoodDescription:    strings.TrimSpace(field(rec, col, "food_description")),
			MeasureDescription: strings.TrimSpace(field(rec, col, "measure_description")),
			NumberOfServings:   strings.TrimSpace(field(rec, col, "number_of_servings")),
			GramWeight:         gw,
		})
	}
	return ref, nil
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// FindForName returns portions whose food description starts with the
// name, falling back to a contains match. Labels carry the serving
// multiplier when it is not 1.
func (r *PortionRef) FindForName(name string) []domain.Portion {
	if name == "" || len(r.rows) == 0 {
		return nil
	}
	target := normalizeText(name)

	var starts, contains []portionRow
	for _, row := range r.rows {
		desc := normalizeText(row.FoodDescription)
		if strings.HasPrefix(desc, target) {
			starts = append(starts, row)
		} else if strings.Contains(desc, target) {
			contains = append(contains, row)
		}
	}

	hits := starts
	if len(hits) == 0 {
		hits = contains
	}
	if len(hits) > maxPortionHits {
		hits = hits[:maxPortionHits]
	}

	out := make([]domain.Portion, 0, len(hits))
	for i, row := range hits {
		label := row.MeasureDescription
		if row.NumberOfServings != "" && row.NumberOfServings != "1" {
			label = fmt.Sprintf("%s × %s", row.NumberOfServings, label)
		}
		out = append(out, domain.Portion{
			ID:         fmt.Sprintf("w%d", i),
			Label:      label,
			Unit:       strings.ToLower(label),
			GramWeight: row.GramWeight,
		})
	}
	return out
}

func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
