package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/retailops/analytics/internal/domain/sales"
	"github.com/retailops/analytics/internal/infrastructure/csvio"
)

const (
	colPerson       = "Person"
	colPeopleRegion = "Region"
)

var peopleColumns = []string{colPerson, colPeopleRegion}

// LoadPeople parses and stores the region managers source. One region may
// carry several managers; duplicates are kept as distinct rows.
func (s *Service) LoadPeople(ctx context.Context, r io.Reader) (*LoadResult, error) {
	result := s.newResult(sales.SourcePeople)

	parser, err := openParser(r, result.Source, peopleColumns)
	if err != nil {
		return nil, err
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", result.Source, err)
	}
	result.TotalRows = len(rows)

	ec := csvio.NewErrorCollection(s.maxRowErrors)
	people := make([]sales.Person, 0, len(rows))

	for _, row := range rows {
		person := sales.Person{
			Person: row.Get(colPerson),
			Region: row.Get(colPeopleRegion),
		}
		bad := false
		if person.Person == "" {
			ec.Add(csvio.NewRowError(row.LineNumber, colPerson, csvio.CodeRequiredField,
				fmt.Sprintf("field %q is required", colPerson)))
			bad = true
		}
		if person.Region == "" {
			ec.Add(csvio.NewRowError(row.LineNumber, colPeopleRegion, csvio.CodeRequiredField,
				fmt.Sprintf("field %q is required", colPeopleRegion)))
			bad = true
		}
		if bad {
			continue
		}
		people = append(people, person)
	}

	return s.finish(result, ec, func() error {
		return s.repo.ReplacePeople(ctx, people)
	})
}
