package dbmcp

// QueryResult is the vendor-neutral result of ExecuteSql. Columns are in
// result-set order and every row has exactly len(Columns) values. For
// non-row-returning statements Columns is the single synthetic name
// "affected_rows" and RowCount is the driver-reported update count.
type QueryResult struct {
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	RowCount   int      `json:"row_count"`
	DurationMs int64    `json:"duration_ms"`
}

// Resource is an on-demand textual document describing live database
// state, addressed by a database:// URI. Resources are computed per
// call and never cached.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mime_type"`
	Content     string `json:"content"`
}

// ResourceSummary is a Resource without its content, as returned by
// ListResources.
type ResourceSummary struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Closed URI scheme for the resource catalog.
const (
	ResourceInfoURI           = "database://info"
	ResourceDataDictionaryURI = "database://data-dictionary"
	resourceTablePrefix       = "database://table/"
	resourceSchemaPrefix      = "database://schema/"
)
