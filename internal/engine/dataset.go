package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Required dataset columns. Any additional columns, such as a candidate
// identifier, are ignored.
const (
	ColQualification   = "qualification"
	ColExperienceLevel = "experience_level"
	ColSkills          = "skills"
	ColJobRole         = "job_role"
)

// Record is one labeled candidate row in its raw, pre-normalization form.
type Record struct {
	Qualification   string
	ExperienceLevel string
	Skills          string
	JobRole         string
}

// Dataset holds the parsed rows of an uploaded training file.
type Dataset struct {
	Records []Record
}

// RequiredColumns returns the column names a training dataset must provide.
func RequiredColumns() []string {
	return []string{ColQualification, ColExperienceLevel, ColSkills, ColJobRole}
}

// ValidateHeader checks a CSV header row for the required columns.
// Matching is case-insensitive and ignores surrounding whitespace.
// Returns ErrMissingColumns naming every absent column.
func ValidateHeader(header []string) error {
	_, err := columnIndexes(header)
	return err
}

// ReadDataset parses a CSV training dataset. The header row is matched
// case-insensitively; rows with fewer fields than the header are rejected
// by the CSV reader. Returns ErrMissingColumns, ErrEmptyDataset, or
// ErrEmptyJobRole for malformed input.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	idx, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		rec := Record{
			Qualification:   row[idx[ColQualification]],
			ExperienceLevel: row[idx[ColExperienceLevel]],
			Skills:          row[idx[ColSkills]],
			JobRole:         row[idx[ColJobRole]],
		}

		if Normalize(rec.JobRole) == "" {
			return nil, ErrEmptyJobRole
		}

		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, ErrEmptyDataset
	}

	return ds, nil
}

func columnIndexes(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[Normalize(strings.TrimPrefix(name, "\uFEFF"))] = i
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return idx, nil
}
