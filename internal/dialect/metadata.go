package dialect

import "errors"

// ErrSchemasUnsupported is returned by SchemasQuery for vendors with no
// schema concept. Callers treat it as "zero schemas", never a failure.
var ErrSchemasUnsupported = errors.New("dialect: schema enumeration not supported")

// Query is a vendor metadata query with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// TablesQuery returns the query enumerating tables and views. Result
// columns: schema, name, type, remarks (all text, never NULL).
func (p *Profile) TablesQuery() Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT n.nspname,
       c.relname,
       CASE c.relkind WHEN 'v' THEN 'VIEW' ELSE 'TABLE' END,
       COALESCE(obj_description(c.oid, 'pg_class'), '')
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind IN ('r', 'p', 'v', 'm')
  AND n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY n.nspname, c.relname`}
	case TypeMySQL:
		return Query{SQL: `
SELECT table_schema, table_name,
       CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END,
       COALESCE(table_comment, '')
FROM information_schema.tables
WHERE table_schema NOT IN ('mysql', 'sys', 'performance_schema', 'information_schema')
ORDER BY table_schema, table_name`}
	case TypeSQLite:
		return Query{SQL: `
SELECT '', name,
       CASE type WHEN 'view' THEN 'VIEW' ELSE 'TABLE' END,
       ''
FROM sqlite_master
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
ORDER BY name`}
	case TypeSQLServer:
		return Query{SQL: `
SELECT table_schema, table_name,
       CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END,
       ''
FROM information_schema.tables
ORDER BY table_schema, table_name`}
	case TypeOracle:
		return Query{SQL: `
SELECT owner, table_name, 'TABLE', '' FROM all_tables
WHERE owner NOT IN ('SYS', 'SYSTEM', 'XDB', 'MDSYS', 'CTXSYS')
UNION ALL
SELECT owner, view_name, 'VIEW', '' FROM all_views
WHERE owner NOT IN ('SYS', 'SYSTEM', 'XDB', 'MDSYS', 'CTXSYS')
ORDER BY 1, 2`}
	default:
		// H2 and unknown vendors follow the information_schema standard.
		return Query{SQL: `
SELECT table_schema, table_name,
       CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END,
       COALESCE(remarks, '')
FROM information_schema.tables
WHERE table_schema NOT IN ('INFORMATION_SCHEMA')
ORDER BY table_schema, table_name`}
	}
}

// SchemasQuery returns the query enumerating schema names, or
// ErrSchemasUnsupported for vendors without schemas.
func (p *Profile) SchemasQuery() (Query, error) {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT schema_name FROM information_schema.schemata
WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
ORDER BY schema_name`}, nil
	case TypeMySQL:
		return Query{SQL: `
SELECT schema_name FROM information_schema.schemata
WHERE schema_name NOT IN ('mysql', 'sys', 'performance_schema', 'information_schema')
ORDER BY schema_name`}, nil
	case TypeSQLServer:
		return Query{SQL: `SELECT name FROM sys.schemas ORDER BY name`}, nil
	case TypeOracle:
		return Query{SQL: `SELECT username FROM all_users ORDER BY username`}, nil
	case TypeH2, TypeGeneric:
		return Query{SQL: `SELECT schema_name FROM information_schema.schemata ORDER BY schema_name`}, nil
	default:
		return Query{}, ErrSchemasUnsupported
	}
}

// ColumnsQuery returns the query describing a table's columns in
// ordinal order. Result columns: name, type, size, decimal digits,
// nullable ('YES'/'NO'), default, remarks. An empty schema matches any
// schema.
func (p *Profile) ColumnsQuery(schema, table string) Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT column_name, data_type,
       COALESCE(character_maximum_length, numeric_precision, 0),
       COALESCE(numeric_scale, 0),
       is_nullable,
       COALESCE(column_default, ''),
       ''
FROM information_schema.columns
WHERE ($1 = '' OR table_schema = $1) AND table_name = $2
ORDER BY ordinal_position`, Args: []any{schema, table}}
	case TypeMySQL:
		return Query{SQL: `
SELECT column_name, data_type,
       COALESCE(character_maximum_length, numeric_precision, 0),
       COALESCE(numeric_scale, 0),
       is_nullable,
       COALESCE(column_default, ''),
       COALESCE(column_comment, '')
FROM information_schema.columns
WHERE (? = '' OR table_schema = ?) AND table_name = ?
ORDER BY ordinal_position`, Args: []any{schema, schema, table}}
	case TypeSQLite:
		return Query{SQL: `
SELECT name, COALESCE(type, ''), 0, 0,
       CASE "notnull" WHEN 1 THEN 'NO' ELSE 'YES' END,
       COALESCE(dflt_value, ''),
       ''
FROM pragma_table_info(?)
ORDER BY cid`, Args: []any{table}}
	case TypeSQLServer:
		return Query{SQL: `
SELECT column_name, data_type,
       COALESCE(character_maximum_length, numeric_precision, 0),
       COALESCE(numeric_scale, 0),
       is_nullable,
       COALESCE(column_default, ''),
       ''
FROM information_schema.columns
WHERE (@p1 = '' OR table_schema = @p1) AND table_name = @p2
ORDER BY ordinal_position`, Args: []any{schema, table}}
	case TypeOracle:
		return Query{SQL: `
SELECT column_name, data_type,
       COALESCE(data_length, 0),
       COALESCE(data_scale, 0),
       CASE nullable WHEN 'N' THEN 'NO' ELSE 'YES' END,
       '',
       ''
FROM all_tab_columns
WHERE (:1 = '' OR owner = :1) AND table_name = :2
ORDER BY column_id`, Args: []any{schema, table}}
	default:
		return Query{SQL: `
SELECT column_name, data_type,
       COALESCE(character_maximum_length, numeric_precision, 0),
       COALESCE(numeric_scale, 0),
       is_nullable,
       COALESCE(column_default, ''),
       COALESCE(remarks, '')
FROM information_schema.columns
WHERE (? = '' OR table_schema = ?) AND table_name = ?
ORDER BY ordinal_position`, Args: []any{schema, schema, table}}
	}
}

// PrimaryKeysQuery returns the query listing primary key columns.
// Result columns: constraint name, column name, key sequence.
func (p *Profile) PrimaryKeysQuery(schema, table string) Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT tc.constraint_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY'
  AND ($1 = '' OR tc.table_schema = $1)
  AND tc.table_name = $2
ORDER BY kcu.ordinal_position`, Args: []any{schema, table}}
	case TypeMySQL:
		return Query{SQL: `
SELECT constraint_name, column_name, ordinal_position
FROM information_schema.key_column_usage
WHERE constraint_name = 'PRIMARY'
  AND (? = '' OR table_schema = ?)
  AND table_name = ?
ORDER BY ordinal_position`, Args: []any{schema, schema, table}}
	case TypeSQLite:
		return Query{SQL: `
SELECT 'PRIMARY', name, pk
FROM pragma_table_info(?)
WHERE pk > 0
ORDER BY pk`, Args: []any{table}}
	case TypeSQLServer:
		return Query{SQL: `
SELECT tc.constraint_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
WHERE tc.constraint_type = 'PRIMARY KEY'
  AND (@p1 = '' OR tc.table_schema = @p1)
  AND tc.table_name = @p2
ORDER BY kcu.ordinal_position`, Args: []any{schema, table}}
	case TypeOracle:
		return Query{SQL: `
SELECT ac.constraint_name, acc.column_name, acc.position
FROM all_constraints ac
JOIN all_cons_columns acc ON ac.constraint_name = acc.constraint_name AND ac.owner = acc.owner
WHERE ac.constraint_type = 'P'
  AND (:1 = '' OR ac.owner = :1)
  AND ac.table_name = :2
ORDER BY acc.position`, Args: []any{schema, table}}
	default:
		return Query{SQL: `
SELECT tc.constraint_name, kcu.column_name, kcu.ordinal_position
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
WHERE tc.constraint_type = 'PRIMARY KEY'
  AND (? = '' OR tc.table_schema = ?)
  AND tc.table_name = ?
ORDER BY kcu.ordinal_position`, Args: []any{schema, schema, table}}
	}
}

// ForeignKeysQuery returns the query listing foreign key references.
// Result columns: constraint name, column, referenced table, referenced
// column.
func (p *Profile) ForeignKeysQuery(schema, table string) Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
 AND tc.table_schema = ccu.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND ($1 = '' OR tc.table_schema = $1)
  AND tc.table_name = $2
ORDER BY tc.constraint_name, kcu.ordinal_position`, Args: []any{schema, table}}
	case TypeMySQL:
		return Query{SQL: `
SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
FROM information_schema.key_column_usage
WHERE referenced_table_name IS NOT NULL
  AND (? = '' OR table_schema = ?)
  AND table_name = ?
ORDER BY constraint_name, ordinal_position`, Args: []any{schema, schema, table}}
	case TypeSQLite:
		return Query{SQL: `
SELECT 'fk_' || id, "from", "table", COALESCE("to", '')
FROM pragma_foreign_key_list(?)
ORDER BY id, seq`, Args: []any{table}}
	case TypeSQLServer:
		return Query{SQL: `
SELECT rc.constraint_name, kcu.column_name, kcu2.table_name, kcu2.column_name
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
  ON rc.constraint_name = kcu.constraint_name
JOIN information_schema.key_column_usage kcu2
  ON rc.unique_constraint_name = kcu2.constraint_name
 AND kcu.ordinal_position = kcu2.ordinal_position
WHERE (@p1 = '' OR kcu.table_schema = @p1)
  AND kcu.table_name = @p2
ORDER BY rc.constraint_name, kcu.ordinal_position`, Args: []any{schema, table}}
	case TypeOracle:
		return Query{SQL: `
SELECT ac.constraint_name, acc.column_name, rcc.table_name, rcc.column_name
FROM all_constraints ac
JOIN all_cons_columns acc ON ac.constraint_name = acc.constraint_name AND ac.owner = acc.owner
JOIN all_cons_columns rcc ON ac.r_constraint_name = rcc.constraint_name AND ac.r_owner = rcc.owner
 AND acc.position = rcc.position
WHERE ac.constraint_type = 'R'
  AND (:1 = '' OR ac.owner = :1)
  AND ac.table_name = :2
ORDER BY ac.constraint_name, acc.position`, Args: []any{schema, table}}
	default:
		return Query{SQL: `
SELECT kcu.constraint_name, kcu.column_name,
       COALESCE(ccu.table_name, ''), COALESCE(ccu.column_name, '')
FROM information_schema.key_column_usage kcu
JOIN information_schema.table_constraints tc
  ON tc.constraint_name = kcu.constraint_name
LEFT JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND (? = '' OR kcu.table_schema = ?)
  AND kcu.table_name = ?
ORDER BY kcu.constraint_name, kcu.ordinal_position`, Args: []any{schema, schema, table}}
	}
}

// IndexesQuery returns the query listing index columns. Result columns:
// index name, column name, non-unique flag (0/1).
func (p *Profile) IndexesQuery(schema, table string) Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT i.relname, a.attname,
       CASE WHEN ix.indisunique THEN 0 ELSE 1 END
FROM pg_catalog.pg_class t
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
JOIN pg_catalog.pg_index ix ON t.oid = ix.indrelid
JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
WHERE ($1 = '' OR n.nspname = $1) AND t.relname = $2
ORDER BY i.relname, a.attnum`, Args: []any{schema, table}}
	case TypeMySQL:
		return Query{SQL: `
SELECT index_name, column_name, non_unique
FROM information_schema.statistics
WHERE (? = '' OR table_schema = ?) AND table_name = ?
ORDER BY index_name, seq_in_index`, Args: []any{schema, schema, table}}
	case TypeSQLite:
		return Query{SQL: `
SELECT il.name, COALESCE(ii.name, ''),
       CASE il."unique" WHEN 1 THEN 0 ELSE 1 END
FROM pragma_index_list(?) il
JOIN pragma_index_info(il.name) ii
ORDER BY il.name, ii.seqno`, Args: []any{table}}
	case TypeSQLServer:
		return Query{SQL: `
SELECT i.name, c.name,
       CASE i.is_unique WHEN 1 THEN 0 ELSE 1 END
FROM sys.indexes i
JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id
JOIN sys.tables t ON i.object_id = t.object_id
JOIN sys.schemas s ON t.schema_id = s.schema_id
WHERE i.name IS NOT NULL
  AND (@p1 = '' OR s.name = @p1)
  AND t.name = @p2
ORDER BY i.name, ic.key_ordinal`, Args: []any{schema, table}}
	case TypeOracle:
		return Query{SQL: `
SELECT ai.index_name, aic.column_name,
       CASE ai.uniqueness WHEN 'UNIQUE' THEN 0 ELSE 1 END
FROM all_indexes ai
JOIN all_ind_columns aic ON ai.index_name = aic.index_name AND ai.owner = aic.index_owner
WHERE (:1 = '' OR ai.table_owner = :1)
  AND ai.table_name = :2
ORDER BY ai.index_name, aic.column_position`, Args: []any{schema, table}}
	default:
		return Query{SQL: `
SELECT index_name, column_name, non_unique
FROM information_schema.index_columns
WHERE (? = '' OR table_schema = ?) AND table_name = ?
ORDER BY index_name, ordinal_position`, Args: []any{schema, schema, table}}
	}
}

// TableInfoQuery returns the query fetching a table's type and remarks.
// Result columns: table type, remarks.
func (p *Profile) TableInfoQuery(schema, table string) Query {
	switch p.Type {
	case TypePostgreSQL:
		return Query{SQL: `
SELECT CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END, ''
FROM information_schema.tables
WHERE ($1 = '' OR table_schema = $1) AND table_name = $2`, Args: []any{schema, table}}
	case TypeMySQL:
		return Query{SQL: `
SELECT CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END, COALESCE(table_comment, '')
FROM information_schema.tables
WHERE (? = '' OR table_schema = ?) AND table_name = ?`, Args: []any{schema, schema, table}}
	case TypeSQLite:
		return Query{SQL: `
SELECT CASE type WHEN 'view' THEN 'VIEW' ELSE 'TABLE' END, ''
FROM sqlite_master WHERE name = ?`, Args: []any{table}}
	case TypeSQLServer:
		return Query{SQL: `
SELECT CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END, ''
FROM information_schema.tables
WHERE (@p1 = '' OR table_schema = @p1) AND table_name = @p2`, Args: []any{schema, table}}
	case TypeOracle:
		return Query{SQL: `
SELECT 'TABLE', '' FROM all_tables
WHERE (:1 = '' OR owner = :1) AND table_name = :2`, Args: []any{schema, table}}
	default:
		return Query{SQL: `
SELECT CASE table_type WHEN 'VIEW' THEN 'VIEW' ELSE 'TABLE' END, COALESCE(remarks, '')
FROM information_schema.tables
WHERE (? = '' OR table_schema = ?) AND table_name = ?`, Args: []any{schema, schema, table}}
	}
}
