// export_test.go exports private functions for white-box testing.
package resolver

// ScanImports exports the import scanner for testing.
var ScanImports = scanImports

// ImportStmt mirrors importStmt for assertions.
type ImportStmt = importStmt

// Fields of importStmt for test assertions.
func (s importStmt) From() bool     { return s.from }
func (s importStmt) Module() string { return s.module }
func (s importStmt) Items() []string {
	return s.items
}
func (s importStmt) Level() int { return s.level }
