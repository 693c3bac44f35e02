// Package bigquery wires an External location's boundary to a real
// BigQuery dataset, grounded on the teacher's components/bigquery
// Initium/Terminus pair and its loader ValueLoader/ValueSaver adapter.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/spf13/viper"
	"google.golang.org/api/iterator"

	"github.com/hydroflow-go/hydro/expr"
)

type loader map[string]interface{}

func (l loader) Load(v []bigquery.Value, s bigquery.Schema) error {
	for i := 0; i < len(s); i++ {
		l[s[i].Name] = v[i]
	}
	return nil
}

func (l loader) Save() (row map[string]bigquery.Value, id string, err error) {
	row = map[string]bigquery.Value{}
	for k, v := range l {
		row[k] = v
	}
	return row, "", nil
}

// Source returns an expr.Expr carrying a func() (interface{}, bool) that
// runs query once per call and returns every row as a slice of maps.
func Source(v *viper.Viper) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	query := v.GetString("query")

	client, err := bigquery.NewClient(context.Background(), projectID)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("bigquery source: connect: %w", err)
	}

	fn := func() (interface{}, bool) {
		ctx := context.Background()
		it, err := client.Query(query).Read(ctx)
		if err != nil {
			return nil, false
		}
		var payload []map[string]interface{}
		for {
			value := loader{}
			if err := it.Next(&value); err == iterator.Done {
				break
			} else if err == nil {
				payload = append(payload, value)
			}
		}
		if len(payload) == 0 {
			return nil, false
		}
		return payload, true
	}

	return expr.NewClosure(fmt.Sprintf("bigquery_source:%s", projectID), expr.Span{}, fn), nil
}

// Sink returns an expr.Expr carrying a func(interface{}) error that
// inserts one or more rows into dataset.table.
func Sink(v *viper.Viper) (expr.Expr, error) {
	projectID := v.GetString("project_id")
	datasetName := v.GetString("dataset")
	tableName := v.GetString("table")

	client, err := bigquery.NewClient(context.Background(), projectID)
	if err != nil {
		return expr.Expr{}, fmt.Errorf("bigquery sink: connect: %w", err)
	}
	table := client.Dataset(datasetName).Table(tableName)

	fn := func(payload interface{}) error {
		rows, ok := payload.([]map[string]interface{})
		if !ok {
			rows = []map[string]interface{}{payload.(map[string]interface{})}
		}
		var errComposite error
		for _, row := range rows {
			if err := table.Inserter().Put(context.Background(), loader(row)); err != nil {
				if errComposite == nil {
					errComposite = err
				} else {
					errComposite = fmt.Errorf("%v; %w", errComposite, err)
				}
			}
		}
		return errComposite
	}

	return expr.NewClosure(fmt.Sprintf("bigquery_sink:%s.%s", datasetName, tableName), expr.Span{}, fn), nil
}
