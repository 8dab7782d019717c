package cachereader

import (
	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Printer interface {
		PrintRecord(w *model.Watch, rec model.Record) error
	}
)
