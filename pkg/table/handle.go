package table

import "github.com/shashiranjanraj/stockroom/pkg/csvexport"

// Handle is the row-type independent surface of a Table, used where tables
// of different row types are held together.
type Handle interface {
	ToggleSort(key string) error
	Click(i int) error
	ContextMenu(i, x, y int) error
	Export(format Format) (string, error)
	Record(i int) (csvexport.Record, error)
	SetError(failed bool)
	View() View
	Len() int
}

var _ Handle = (*Table[struct{}])(nil)
