package models

import (
	"reflect"
	"strings"
	"testing"
)

// Колонка LockMeta не должна навязывать тип конкретного диалекта:
// схему выбирает datatypes.JSON (jsonb в postgres, json в mysql),
// иначе AutoMigrate под mysql падает на старте.
func TestLockMetaColumnTypeIsDialectNeutral(t *testing.T) {
	f, ok := reflect.TypeOf(Reservation{}).FieldByName("LockMeta")
	if !ok {
		t.Fatal("LockMeta field missing")
	}
	if tag := f.Tag.Get("gorm"); strings.Contains(tag, "type:") {
		t.Fatalf("LockMeta must not pin a column type, gorm tag is %q", tag)
	}
}
