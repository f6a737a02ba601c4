package schema

// queries holds the catalog queries of a dialect.
//
// columns yields (name, type, nullable 0/1, primary key 0/1) in column order.
// foreignKeys yields (column, referenced table, referenced column); the
// referenced column may be NULL when it is implied by the primary key.
type queries struct {
	tables      string
	columns     string
	foreignKeys string
}

var dialects = map[string]queries{
	SQLite: {
		tables: `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
		columns: `SELECT name, type, CASE WHEN "notnull" = 0 AND pk = 0 THEN 1 ELSE 0 END, CASE WHEN pk > 0 THEN 1 ELSE 0 END ` +
			`FROM pragma_table_info(?) ORDER BY cid`,
		foreignKeys: `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`,
	},
	Postgres: {
		tables: `SELECT table_name FROM information_schema.tables ` +
			`WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name`,
		columns: `SELECT c.column_name, c.data_type, CASE WHEN c.is_nullable = 'YES' THEN 1 ELSE 0 END, ` +
			`CASE WHEN pk.column_name IS NULL THEN 0 ELSE 1 END ` +
			`FROM information_schema.columns c ` +
			`LEFT JOIN (SELECT kcu.column_name FROM information_schema.table_constraints tc ` +
			`JOIN information_schema.key_column_usage kcu ` +
			`ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema ` +
			`WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = current_schema() AND tc.table_name = $1) pk ` +
			`ON pk.column_name = c.column_name ` +
			`WHERE c.table_schema = current_schema() AND c.table_name = $1 ORDER BY c.ordinal_position`,
		// Referenced columns are matched by position so composite keys
		// pair up column by column.
		foreignKeys: `SELECT kcu.column_name, ref.table_name, ref.column_name ` +
			`FROM information_schema.table_constraints tc ` +
			`JOIN information_schema.key_column_usage kcu ` +
			`ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema ` +
			`JOIN information_schema.referential_constraints rc ` +
			`ON rc.constraint_name = tc.constraint_name AND rc.constraint_schema = tc.table_schema ` +
			`JOIN information_schema.key_column_usage ref ` +
			`ON ref.constraint_name = rc.unique_constraint_name AND ref.constraint_schema = rc.unique_constraint_schema ` +
			`AND ref.ordinal_position = kcu.position_in_unique_constraint ` +
			`WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = current_schema() AND tc.table_name = $1 ` +
			`ORDER BY tc.constraint_name, kcu.ordinal_position`,
	},
	MySQL: {
		tables: `SELECT table_name FROM information_schema.tables ` +
			`WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`,
		columns: `SELECT column_name, column_type, CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END, ` +
			`CASE WHEN column_key = 'PRI' THEN 1 ELSE 0 END ` +
			`FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`,
		foreignKeys: `SELECT column_name, referenced_table_name, referenced_column_name ` +
			`FROM information_schema.key_column_usage ` +
			`WHERE table_schema = DATABASE() AND table_name = ? AND referenced_table_name IS NOT NULL ` +
			`ORDER BY ordinal_position`,
	},
}
