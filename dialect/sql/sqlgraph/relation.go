package sqlgraph

import (
	"context"

	"github.com/syssam/relq/dialect/sql"
)

// OrderTerm orders query results by one field.
type OrderTerm struct {
	Field string
	Order sql.Order
	Nulls sql.Nulls
}

// Asc orders by field in ascending order.
func Asc(field string) OrderTerm { return OrderTerm{Field: field, Order: sql.OrderAsc} }

// Desc orders by field in descending order.
func Desc(field string) OrderTerm { return OrderTerm{Field: field, Order: sql.OrderDesc} }

// NullsFirst places NULL values before all others.
func (o OrderTerm) NullsFirst() OrderTerm {
	o.Nulls = sql.NullsFirst
	return o
}

// NullsLast places NULL values after all others.
func (o OrderTerm) NullsLast() OrderTerm {
	o.Nulls = sql.NullsLast
	return o
}

// RelationRequest asks a read builder to fetch a relation and splice it into
// every returned record. Filters, ordering and pagination apply to the
// fetched rows; nested requests load relations of the fetched records.
type RelationRequest struct {
	Name  string
	Where []func(*sql.Selector)
	Order []OrderTerm
	Take  *int
	Skip  *int
	With  []*RelationRequest
}

// Rel returns a request for the named relation.
func Rel(name string) *RelationRequest {
	return &RelationRequest{Name: name}
}

// Filter adds predicates on the fetched rows.
func (r *RelationRequest) Filter(preds ...func(*sql.Selector)) *RelationRequest {
	r.Where = append(r.Where, preds...)
	return r
}

// OrderBy orders the fetched rows.
func (r *RelationRequest) OrderBy(terms ...OrderTerm) *RelationRequest {
	r.Order = append(r.Order, terms...)
	return r
}

// Limit caps the number of fetched rows per record.
func (r *RelationRequest) Limit(n int) *RelationRequest {
	r.Take = &n
	return r
}

// Offset skips fetched rows per record.
func (r *RelationRequest) Offset(n int) *RelationRequest {
	r.Skip = &n
	return r
}

// Load adds nested relation requests.
func (r *RelationRequest) Load(reqs ...*RelationRequest) *RelationRequest {
	r.With = append(r.With, reqs...)
	return r
}

func requests(names []string) []*RelationRequest {
	reqs := make([]*RelationRequest, len(names))
	for i, n := range names {
		reqs[i] = Rel(n)
	}
	return reqs
}

// validateRequests checks every requested relation name, including nested
// ones, before any statement runs.
func validateRequests(reg *Registry, spec *EntitySpec, reqs []*RelationRequest) error {
	for _, req := range reqs {
		rel, err := spec.Relation(req.Name)
		if err != nil {
			return err
		}
		target, err := reg.Spec(rel.Target)
		if err != nil {
			return err
		}
		for _, o := range req.Order {
			if _, err := target.Column(o.Field); err != nil {
				return err
			}
		}
		if err := validateRequests(reg, target, req.With); err != nil {
			return err
		}
	}
	return nil
}

// loadRelations fetches the requested relations of every record, record by
// record and in request order, and splices the results into the records.
func loadRelations[T Node](ctx context.Context, s *Session, spec *EntitySpec, nodes []T, reqs []*RelationRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	for _, n := range nodes {
		for _, req := range reqs {
			rel, err := spec.Relation(req.Name)
			if err != nil {
				return err
			}
			f, err := s.Registry.Fetcher(rel.Target)
			if err != nil {
				return err
			}
			key, _ := rel.ForeignKey(n)
			v, err := f.FetchByForeignKey(ctx, s, key, rel.MatchColumn(), req, rel.HasMany)
			if err != nil {
				return err
			}
			if err := rel.Set(n, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// requestKeys returns the key fields the requested relations read from a record.
func requestKeys(spec *EntitySpec, reqs []*RelationRequest) ([]string, error) {
	var keys []string
	for _, req := range reqs {
		rel, err := spec.Relation(req.Name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, rel.KeyField())
	}
	return keys, nil
}
