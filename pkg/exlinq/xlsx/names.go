package xlsx

import (
	"strings"

	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
)

// PrintArea is the defined name excel uses for a sheet's print area.
const PrintArea = "_xlnm.Print_Area"

// DefinedNameLocator returns a read locator for the range a defined name
// refers to, e.g. PrintArea or a user name like "OrderData". A name scoped
// to the worksheet takes precedence over a workbook-wide one. Only the first
// area of a multi-area reference is used, and only when it points into the
// located worksheet.
func DefinedNameLocator(name string) func(grid.Worksheet) (grid.Range, bool, error) {
	return func(ws grid.Worksheet) (grid.Range, bool, error) {
		s, ok := ws.(*Worksheet)
		if !ok {
			return grid.Range{}, false, ErrNotExcelize
		}

		refersTo := lookupDefinedName(s, name)
		if refersTo == "" {
			return grid.Range{}, false, nil
		}
		sheet, ref := firstArea(refersTo)
		if ref == "" || (sheet != "" && !strings.EqualFold(sheet, s.name)) {
			return grid.Range{}, false, nil
		}
		r, err := grid.ParseRange(s, ref)
		if err != nil {
			return grid.Range{}, false, err
		}
		return r, true, nil
	}
}

func lookupDefinedName(s *Worksheet, name string) string {
	var global string
	for _, dn := range s.file.GetDefinedName() {
		if !strings.EqualFold(dn.Name, name) {
			continue
		}
		if strings.EqualFold(dn.Scope, s.name) {
			return dn.RefersTo
		}
		if global == "" && (dn.Scope == "" || strings.EqualFold(dn.Scope, "Workbook")) {
			global = dn.RefersTo
		}
	}
	return global
}

// firstArea splits a reference like 'My Sheet'!$A$1:$D$10,... into the
// sheet name and range of its first area.
func firstArea(refersTo string) (sheet, ref string) {
	for _, part := range strings.Split(refersTo, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "="))
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			return "", part
		}
		sheet = strings.Trim(part[:idx], "'")
		return strings.ReplaceAll(sheet, "''", "'"), part[idx+1:]
	}
	return "", ""
}
