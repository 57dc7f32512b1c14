package listing

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Querier is the slice of *sql.DB the composer needs. It is injected per
// call so the request layer owns the client lifecycle.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScanFunc materializes one row of the paged query.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// List runs a filtered, sorted, paginated query over res and returns one
// page plus the total count. The WHERE clause and its arguments are built
// once and shared verbatim by the row query and the count query, so the
// two can never drift. The count runs concurrently with the row fetch;
// if only the count fails the page is still returned with Total nil.
func List[T any](ctx context.Context, db Querier, res Resource, q Query, v Viewer, scan ScanFunc[T]) (*Page[T], error) {
	if v.Kind < res.MinViewer {
		return nil, fmt.Errorf("listing %s: %w", res.Table, ErrPermissionDenied)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = res.defaultLimit()
	}
	if limit > res.maxLimit() {
		limit = res.maxLimit()
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	page := newPage[T](limit, offset)

	// Visibility goes in first so no filter composition can precede it.
	wb := &whereBuilder{}
	if closed := applyVisibility(wb, res, v); closed {
		zero := 0
		page.Total = &zero
		return page, nil
	}
	applyFilters(wb, res, q.Filters)

	where := ""
	if len(wb.clauses) > 0 {
		where = " WHERE " + strings.Join(wb.clauses, " AND ")
	}

	// Count query cloned from the filtered state, before sort/limit/offset.
	countQuery := "SELECT COUNT(*) FROM " + res.Table + where
	countArgs := append([]any(nil), wb.args...)

	n := len(wb.args)
	rowQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(res.Columns, ", "), res.Table, where, orderClause(res, q), n+1, n+2)
	rowArgs := append(append([]any(nil), wb.args...), limit, offset)

	type countResult struct {
		total int
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		var total int
		err := db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
		countCh <- countResult{total, err}
	}()

	rows, err := db.QueryContext(ctx, rowQuery, rowArgs...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", res.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", res.Table, err)
		}
		page.Items = append(page.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", res.Table, err)
	}

	if cr := <-countCh; cr.err != nil {
		log.Debug().Err(cr.err).Str("table", res.Table).Msg("count query failed, page returned without total")
		page.HasMore = len(page.Items) == limit
	} else {
		page.Total = &cr.total
		page.HasMore = cr.total > offset+len(page.Items)
	}
	return page, nil
}

// ILIKE treats %, _ and \ as metacharacters; search terms match them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type whereBuilder struct {
	clauses []string
	args    []any
}

// next returns the placeholder index the next bound argument will take.
func (w *whereBuilder) next() int { return len(w.args) + 1 }

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// applyVisibility translates the viewer into a query-level predicate.
// Returns true when the resource cannot express visibility for this viewer
// and the list must fail closed with zero rows.
func applyVisibility(w *whereBuilder, res Resource, v Viewer) (closed bool) {
	if v.Kind == ViewerPrivileged {
		return false
	}
	switch {
	case res.PublicColumn != "" && res.OwnerColumn != "" && v.Kind == ViewerOwner:
		w.add(fmt.Sprintf("(%s = true OR %s = $%d)", res.PublicColumn, res.OwnerColumn, w.next()), v.UserID)
	case res.PublicColumn != "":
		w.add(fmt.Sprintf("%s = true", res.PublicColumn))
	case res.OwnerColumn != "":
		// Owner-private resource: no public flag to fall back to.
		if v.Kind != ViewerOwner {
			return true
		}
		w.add(fmt.Sprintf("%s = $%d", res.OwnerColumn, w.next()), v.UserID)
	}
	return false
}

// applyFilters narrows the query with every declared filter present in the
// request. Distinct filter names AND together; the columns of one
// Substring spec OR together. Spec names are walked in sorted order so the
// generated SQL is deterministic for identical queries.
func applyFilters(w *whereBuilder, res Resource, filters map[string]string) {
	names := make([]string, 0, len(res.Filters))
	for name := range res.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := res.Filters[name]
		switch spec.Kind {
		case Equals:
			if v, ok := filters[name]; ok && v != "" {
				w.add(fmt.Sprintf("%s = $%d", spec.Column, w.next()), v)
			}
		case Substring:
			v, ok := filters[name]
			if !ok || v == "" {
				continue
			}
			idx := w.next()
			cols := spec.columns()
			parts := make([]string, len(cols))
			for i, col := range cols {
				parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
			}
			w.add("("+strings.Join(parts, " OR ")+")", "%"+likeEscaper.Replace(v)+"%")
		case Range:
			applyRangeBound(w, spec, filters[name+"_min"], ">=")
			applyRangeBound(w, spec, filters[name+"_max"], "<=")
		case SetMembership:
			v, ok := filters[name]
			if !ok || v == "" {
				continue
			}
			var members []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					members = append(members, part)
				}
			}
			if len(members) == 0 {
				continue
			}
			w.add(fmt.Sprintf("%s = ANY($%d)", spec.Column, w.next()), pq.Array(members))
		}
	}
}

func applyRangeBound(w *whereBuilder, spec FilterSpec, raw, op string) {
	if raw == "" {
		return
	}
	var bound any
	if spec.Time {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Debug().Str("column", spec.Column).Str("value", raw).Msg("dropping malformed time bound")
			return
		}
		bound = t
	} else {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Debug().Str("column", spec.Column).Str("value", raw).Msg("dropping malformed numeric bound")
			return
		}
		bound = f
	}
	w.add(fmt.Sprintf("%s %s $%d", spec.Column, op, w.next()), bound)
}

// orderClause resolves the sort against the resource allow-list, falling
// back to the default sort for unknown fields, and appends the unique
// tie-break column so pagination stays stable when sort values collide.
func orderClause(res Resource, q Query) string {
	col, ok := res.SortFields[q.SortBy]
	if !ok {
		col = res.SortFields[res.DefaultSort]
	}
	if col == "" {
		col = res.TieBreak
	}

	dir := strings.ToUpper(q.SortOrder)
	if dir != "ASC" && dir != "DESC" {
		dir = strings.ToUpper(res.DefaultOrder)
		if dir != "ASC" {
			dir = "DESC"
		}
	}

	order := col + " " + dir
	if res.TieBreak != "" && res.TieBreak != col {
		order += ", " + res.TieBreak + " ASC"
	}
	return order
}
