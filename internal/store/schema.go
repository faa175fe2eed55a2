package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CallEventsColumns holds the columns for the "call_events" table.
	CallEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64, Comment: "Unix milliseconds, UTC"},
		{Name: "kind", Type: field.TypeString, Comment: "gateway or llm"},
		{Name: "target", Type: field.TypeString, Comment: "Endpoint or model"},
		{Name: "method", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
	}
	// CallEventsTable holds the schema information for the "call_events" table.
	CallEventsTable = &schema.Table{
		Name:       "call_events",
		Columns:    CallEventsColumns,
		PrimaryKey: []*schema.Column{CallEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "callevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{CallEventsColumns[1]},
			},
			{
				Name:    "callevent_kind_target",
				Unique:  false,
				Columns: []*schema.Column{CallEventsColumns[2], CallEventsColumns[3]},
			},
		},
	}
	// Tables holds all the tables in the journal schema.
	Tables = []*schema.Table{
		CallEventsTable,
	}
)
