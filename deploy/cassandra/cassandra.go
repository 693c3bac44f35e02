// Package cassandra wires an External location's boundary to a real
// Cassandra keyspace via gocql, grounded on the teacher's
// components/cassandra Initium/Terminus pair.
package cassandra

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/spf13/viper"

	"github.com/hydroflow-go/hydro/expr"
)

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// pages through query's result set one page at a time, returning the
// page's rows as a slice of maps.
func Source(v *viper.Viper) (expr.Expr, error) {
	hosts := v.GetStringSlice("hosts")
	keyspace := v.GetString("keyspace")
	query := v.GetString("query")
	pageSize := v.GetInt("page_size")

	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	session, err := cluster.CreateSession()
	if err != nil {
		return expr.Expr{}, fmt.Errorf("cassandra source: session: %w", err)
	}
	activeQuery := session.Query(query).PageSize(pageSize)

	var state []byte
	fn := func() (interface{}, bool) {
		iterator := activeQuery.PageState(state).Iter()
		rows, err := iterator.SliceMap()
		state = iterator.PageState()
		if err != nil || len(rows) == 0 {
			return nil, false
		}
		return rows, true
	}

	return expr.NewClosure(fmt.Sprintf("cassandra_source:%s", keyspace), expr.Span{}, fn), nil
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// executes query once per row in the payload, binding keys in order.
func Sink(v *viper.Viper) (expr.Expr, error) {
	hosts := v.GetStringSlice("hosts")
	keyspace := v.GetString("keyspace")
	query := v.GetString("query")
	keys := v.GetStringSlice("keys")

	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	session, err := cluster.CreateSession()
	if err != nil {
		return expr.Expr{}, fmt.Errorf("cassandra sink: session: %w", err)
	}

	fn := func(payload interface{}) error {
		rows, ok := payload.([]map[string]interface{})
		if !ok {
			rows = []map[string]interface{}{payload.(map[string]interface{})}
		}
		var errComposite error
		for _, row := range rows {
			values := make([]interface{}, 0, len(keys))
			for _, key := range keys {
				values = append(values, row[key])
			}
			if err := session.Query(query, values...).Exec(); err != nil {
				if errComposite == nil {
					errComposite = err
				} else {
					errComposite = fmt.Errorf("%v; %w", errComposite, err)
				}
			}
		}
		return errComposite
	}

	return expr.NewClosure(fmt.Sprintf("cassandra_sink:%s", keyspace), expr.Span{}, fn), nil
}
