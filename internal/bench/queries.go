package bench

import "fmt"

// QueryTemplate is one benchmark query with a single placeholder for the
// variant table name. Join queries pin the orders side to OrdersTable.
type QueryTemplate struct {
	Name     string
	Template string
}

func (q QueryTemplate) Render(table string) string {
	return fmt.Sprintf(q.Template, table)
}

// QueryTemplates returns the fixed benchmark queries in execution order:
// a bloom-filter-friendly point lookup, a range count, and the two joins.
func QueryTemplates() []QueryTemplate {
	return []QueryTemplate{
		{
			Name:     "point_lookup",
			Template: "SELECT * FROM %s WHERE custkey = 500000",
		},
		{
			Name:     "range_count",
			Template: "SELECT COUNT(*) FROM %s WHERE custkey > 500000",
		},
		{
			Name:     "join_fetch",
			Template: "SELECT o.*, c.* FROM " + OrdersTable + " o JOIN %s c ON o.custkey = c.custkey",
		},
		{
			Name:     "join_count",
			Template: "SELECT COUNT(*) FROM " + OrdersTable + " o JOIN %s c ON o.custkey = c.custkey",
		},
	}
}

// QueryNames returns template names in execution order.
func QueryNames() []string {
	templates := QueryTemplates()
	names := make([]string, 0, len(templates))
	for _, template := range templates {
		names = append(names, template.Name)
	}
	return names
}
