package learner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/trezcool/darasa/core"
)

// RosterHeader is the exact required header of roster files. Multi-valued
// columns use ";" as the inner separator. The format supports no quoting:
// values containing "," are out of scope.
const RosterHeader = "first_name,last_name,code,school_ids,course_ids"

var ErrBadRosterHeader = errors.New("roster must start with header: " + RosterHeader)

// RosterResult aggregates a bulk import: rows applied and rows dropped by
// per-row validation. Bad rows never fail the batch.
type RosterResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type rosterRow struct {
	first, last, code string
	schoolIDs         []int
	courseIDs         []int
}

// ImportRoster reconciles delimited roster text against the store:
// per valid row the learner is upserted on its natural identity (so
// re-importing the same file is idempotent), its school set is replaced
// wholesale with the listed ids (empty list means no schools), and each
// listed course id is added to its enrollments, leaving existing
// enrollments intact. Rows failing validation are skipped and counted.
func (svc *Service) ImportRoster(ctx context.Context, actor core.Actor, r io.Reader) (RosterResult, error) {
	switch actor.Role {
	case core.RoleAdmin, core.RoleSuper: // pass
	default:
		return RosterResult{}, core.ErrPermissionDenied
	}

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return RosterResult{}, ErrBadRosterHeader
	}
	if core.CleanString(scanner.Text(), true /* lower */) != RosterHeader {
		return RosterResult{}, ErrBadRosterHeader
	}

	var res RosterResult
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		row, ok := parseRosterRow(line)
		if !ok {
			res.Skipped++
			continue
		}

		l, err := svc.repo.UpsertLearner(ctx, Learner{FirstName: row.first, LastName: row.last, Code: row.code})
		if err != nil {
			return res, err
		}
		if err := svc.repo.ReplaceLearnerSchools(ctx, l.ID, row.schoolIDs); err != nil {
			return res, err
		}
		for _, courseID := range row.courseIDs {
			if err := svc.repo.EnrollCourse(ctx, l.ID, courseID); err != nil {
				return res, err
			}
		}
		res.Imported++
	}
	if err := scanner.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func parseRosterRow(line string) (rosterRow, bool) {
	cols := strings.Split(line, ",")
	if len(cols) < 5 {
		return rosterRow{}, false
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}

	row := rosterRow{first: cols[0], last: cols[1], code: cols[2]}
	if row.first == "" || row.last == "" || len(row.code) != CodeLen {
		return rosterRow{}, false
	}

	var ok bool
	if row.schoolIDs, ok = parseIDList(cols[3]); !ok {
		return rosterRow{}, false
	}
	if row.courseIDs, ok = parseIDList(cols[4]); !ok {
		return rosterRow{}, false
	}
	return row, true
}

func parseIDList(s string) ([]int, bool) {
	var ids []int
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// ExportRoster is the inverse of ImportRoster for a given learner scope:
// one row per learner, school_ids and course_ids rendered as ";"-joined
// ascending-sorted integers, rows ordered by (last_name, first_name).
// Reconciling the output against an empty store reproduces the scope's
// (name, code, schools, courses) tuples.
func (svc *Service) ExportRoster(ctx context.Context, w io.Writer, learners []Learner) error {
	sorted := make([]Learner, len(learners))
	copy(sorted, learners)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := strings.ToLower(sorted[i].LastName), strings.ToLower(sorted[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(sorted[i].FirstName) < strings.ToLower(sorted[j].FirstName)
	})

	if _, err := io.WriteString(w, RosterHeader+"\n"); err != nil {
		return err
	}
	for _, l := range sorted {
		schoolIDs, err := svc.repo.QueryLearnerSchoolIDs(ctx, l.ID)
		if err != nil {
			return err
		}
		courseIDs, err := svc.repo.QueryLearnerCourseIDs(ctx, l.ID)
		if err != nil {
			return err
		}
		row := fmt.Sprintf("%s,%s,%s,%s,%s\n",
			l.FirstName, l.LastName, l.Code, formatIDList(schoolIDs), formatIDList(courseIDs))
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}
	return nil
}

func formatIDList(ids []int) string {
	sort.Ints(ids)
	toks := make([]string, 0, len(ids))
	for _, id := range ids {
		toks = append(toks, strconv.Itoa(id))
	}
	return strings.Join(toks, ";")
}
