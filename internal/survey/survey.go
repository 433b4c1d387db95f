// Package survey loads the study's numeric survey export and joins
// per-subject scalars onto trial results. The survey is a read-only
// reference table; one load serves the whole batch.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GallupGovt/ASIST/internal/model/core"
)

// ErrSubjectNotFound marks a trial whose subject has no survey row.
var ErrSubjectNotFound = errors.New("subject not found in survey data")

// subjectColumn is the survey column holding the subject id, used as
// the row index.
const subjectColumn = "Q5"

// missingAnswer is the numeric marker the survey export uses for
// unanswered questions.
const missingAnswer = "-99"

// Table is the survey reference table, indexed by subject id.
type Table struct {
	header  map[string]int
	columns []string
	rows    map[string][]string
}

// Load reads the survey CSV. The first row is the header; the two
// Qualtrics metadata rows after it are dropped. Subject ids are
// whitespace trimmed.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading survey header: %w", err)
	}
	t := &Table{
		header:  make(map[string]int, len(header)),
		columns: header,
		rows:    make(map[string][]string),
	}
	for i, name := range header {
		t.header[name] = i
	}
	idx, ok := t.header[subjectColumn]
	if !ok {
		return nil, fmt.Errorf("survey data has no %s column", subjectColumn)
	}

	for n := 0; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading survey row: %w", err)
		}
		// Qualtrics repeats the question text and an import marker in
		// the two rows under the header.
		if n < 2 {
			continue
		}
		if idx >= len(row) {
			continue
		}
		subject := strings.TrimSpace(row[idx])
		if subject == "" {
			continue
		}
		t.rows[subject] = row
	}
	return t, nil
}

// value returns the answer at a column, reporting absent columns, empty
// cells, and the missing-answer marker as not present.
func (t *Table) value(row []string, col string) (string, bool) {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	if v == "" || v == missingAnswer {
		return "", false
	}
	return v, true
}

// Scores joins one subject's survey answers for one trial difficulty.
// A missing subject is an error; missing answers degrade to documented
// defaults (nil workload, Sequential strategies).
func (t *Table) Scores(subjectID string, difficulty core.Difficulty) (core.SurveyScores, error) {
	row, ok := t.rows[subjectID]
	if !ok {
		return core.SurveyScores{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}

	s := core.SurveyScores{
		OrigVictimStrategy: core.Sequential,
		OrigNavStrategy:    core.Sequential,
	}
	if i, ok := t.blockIndex(row, difficulty); ok {
		if v, ok := t.value(row, [3]string{"Q212", "Q221", "Q230"}[i]); ok {
			if w, err := strconv.Atoi(v); err == nil {
				s.Workload = &w
			}
		}
		if v, ok := t.value(row, [3]string{"Q208_vic", "Q217_vic", "Q226_vic"}[i]); ok {
			s.OrigVictimStrategy = core.ParseStrategy(v)
		}
		if v, ok := t.value(row, [3]string{"Q208_Nav2", "Q217_Nav2", "Q226_Nav2"}[i]); ok {
			s.OrigNavStrategy = core.ParseStrategy(v)
		}
	}

	s.VideogameExperience = t.experience(row)
	s.SatisficingQ7Average = t.prefixAverage(row, "Q7_")
	s.SatisficingQ8Average = t.prefixAverage(row, "Q8_")
	if v, ok := t.value(row, "Q239_new"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Q239 = &f
		}
	}
	return s, nil
}

// blockIndex decodes the survey's block order column. Each subject saw
// the three difficulty question blocks in a randomized order recorded
// in column "o" as a digit permutation, sometimes mangled by the export
// into a date-looking string. The index of this trial's difficulty
// digit selects which question block applies.
func (t *Table) blockIndex(row []string, difficulty core.Difficulty) (int, bool) {
	o, ok := t.value(row, "o")
	if !ok {
		return 0, false
	}
	o = strings.ReplaceAll(o, "/", "")
	o = strings.ReplaceAll(o, "200", "")
	o = strings.ReplaceAll(o, "0", "")
	if len(o) != 3 {
		return 0, false
	}
	digit := map[core.Difficulty]string{core.Easy: "1", core.Medium: "2", core.Hard: "3"}[difficulty]
	i := strings.Index(o, digit)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// experience scores self-reported videogaming background from the six
// calculable answer columns, ignoring the free-form ones. Unanswered
// questions count as zero; an absent or out-of-range ranking column
// voids the whole score.
func (t *Table) experience(row []string) *int {
	for _, col := range [...]string{"Q261", "Q262", "Q263", "Q268", "Q269", "Q271"} {
		if _, ok := t.header[col]; !ok {
			return nil
		}
	}
	num := func(col string) int {
		v, ok := t.value(row, col)
		if !ok {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	}

	oftenPlayed := num("Q261")
	frequency := (num("Q262") - 1) + (num("Q263") - 1)
	q268 := num("Q268")
	if q268 < 0 || q268 > 3 {
		return nil
	}
	better := 0
	if q268 != 0 {
		better = [3]int{3, 2, 0}[q268-1]
	}
	tournaments := 0
	if num("Q269") == 1 {
		tournaments = 1
	}
	score := oftenPlayed + frequency + better + tournaments + num("Q271")
	return &score
}

// prefixAverage averages the numeric answers of every column sharing a
// name prefix, skipping missing answers. Nil when nothing is numeric.
func (t *Table) prefixAverage(row []string, prefix string) *float64 {
	sum, n := 0.0, 0
	for _, col := range t.columns {
		if !strings.HasPrefix(col, prefix) {
			continue
		}
		v, ok := t.value(row, col)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
