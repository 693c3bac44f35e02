// Package bigtable wires an External location's boundary to a real
// Bigtable table, grounded on the teacher's components/bigtable
// Filter.Initium/Mutation.Terminus pair.
package bigtable

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigtable"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Filter decides whether a scanned row is included in a Source's output.
type Filter func(r bigtable.Row) bool

// Mutation encodes a batch of payload rows into Bigtable row keys and
// mutations for a Sink to apply.
type Mutation func(rows []map[string]interface{}) (rowKeys []string, muts []*bigtable.Mutation)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// scans prefixRange once per call, keeping only rows f accepts.
func Source(v *viper.Viper, f Filter) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	instance := v.GetString("instance")
	tableName := v.GetString("table")
	prefixRange := v.GetString("prefix_range")
	familyFilters := v.GetStringSlice("family_filters")

	client, err := bigtable.NewClient(context.Background(), projectID, instance)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("bigtable source: connect: %w", err)
	}
	tbl := client.Open(tableName)
	rr := bigtable.PrefixRange(prefixRange)

	filters := make([]bigtable.ReadOption, 0, len(familyFilters))
	for _, name := range familyFilters {
		filters = append(filters, bigtable.RowFilter(bigtable.FamilyFilter(name)))
	}

	fn := func() (interface{}, bool) {
		var payload []map[string]interface{}
		err := tbl.ReadRows(context.Background(), rr, func(r bigtable.Row) bool {
			if !f(r) {
				return true
			}
			m := map[string]interface{}{"__key": r.Key()}
			for family, items := range r {
				m[family] = items
			}
			payload = append(payload, m)
			return true
		}, filters...)
		if err != nil || len(payload) == 0 {
			return nil, false
		}
		return payload, true
	}

	return expr.NewClosure(fmt.Sprintf("bigtable_source:%s", tableName), expr.Span{}, fn), nil
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// applies muter's encoded mutations for each payload batch.
func Sink(v *viper.Viper, muter Mutation) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	instance := v.GetString("instance")
	tableName := v.GetString("table")

	client, err := bigtable.NewClient(context.Background(), projectID, instance)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("bigtable sink: connect: %w", err)
	}
	tbl := client.Open(tableName)

	fn := func(payload interface{}) error {
		rows, ok := payload.([]map[string]interface{})
		if !ok {
			rows = []map[string]interface{}{payload.(map[string]interface{})}
		}
		keys, muts := muter(rows)
		errs, err := tbl.ApplyBulk(context.Background(), keys, muts)
		if err != nil {
			return err
		}
		for _, e := range errs {
			if e != nil {
				return e
			}
		}
		return nil
	}

	return expr.NewClosure(fmt.Sprintf("bigtable_sink:%s", tableName), expr.Span{}, fn), nil
}
