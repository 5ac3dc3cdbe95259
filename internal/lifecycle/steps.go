package lifecycle

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bfv/tablemigrate/internal/confirm"
	"github.com/bfv/tablemigrate/internal/report"
	"github.com/bfv/tablemigrate/internal/tableset"
)

// Postfix is how a step derives the postfixed twin of a generated table.
type Postfix struct {
	Value string
	Join  tableset.JoinPolicy
}

// Of returns id with the postfix attached.
func (p Postfix) Of(id string) string {
	return tableset.ApplyPostfix(id, p.Value, p.Join)
}

// DumpOutStep dumps each postfixed table to <BaseDir>/<year>/.
type DumpOutStep struct {
	DB      SQL
	BaseDir string
	Postfix Postfix
}

func (s DumpOutStep) Handle(t tableset.Table) error {
	return DumpOut(s.DB, s.Postfix.Of(t.ID), filepath.Join(s.BaseDir, t.Year))
}

// DumpInStep loads <BaseDir>/<year>/<table>.sql for each postfixed table.
type DumpInStep struct {
	DB      SQL
	BaseDir string
	Postfix Postfix
}

func (s DumpInStep) Handle(t tableset.Table) error {
	return DumpIn(s.DB, filepath.Join(s.BaseDir, t.Year, s.Postfix.Of(t.ID)+".sql"))
}

// CopyStep copies each table into its postfixed twin.
type CopyStep struct {
	DB      SQL
	Postfix Postfix
}

func (s CopyStep) Handle(t tableset.Table) error {
	return Copy(s.DB, t.ID, s.Postfix.Of(t.ID))
}

// AddPostfixStep renames each table to its postfixed twin.
type AddPostfixStep struct {
	DB      SQL
	Postfix Postfix
}

func (s AddPostfixStep) Handle(t tableset.Table) error {
	return AddPostfix(s.DB, t.ID, s.Postfix.Value, s.Postfix.Join)
}

// RemovePostfixStep renames each postfixed twin back to the plain table.
type RemovePostfixStep struct {
	DB      SQL
	Postfix Postfix
}

func (s RemovePostfixStep) Handle(t tableset.Table) error {
	return RemovePostfix(s.DB, s.Postfix.Of(t.ID), s.Postfix.Value, s.Postfix.Join)
}

// CreateEmptyStep recreates each table as an empty clone of its postfixed
// twin. Run after AddPostfixStep it takes the data aside and leaves an
// empty table in its place.
type CreateEmptyStep struct {
	DB      SQL
	Postfix Postfix
}

func (s CreateEmptyStep) Handle(t tableset.Table) error {
	return CreateEmpty(s.DB, s.Postfix.Of(t.ID), t.ID)
}

// DropStep drops each postfixed table, gated by the tier Policy selects
// for the table's sequence index.
type DropStep struct {
	DB       SQL
	Prompter *confirm.Prompter
	Policy   confirm.Policy
	Postfix  Postfix
	Out      io.Writer
}

func (s DropStep) Handle(t tableset.Table) error {
	table := s.Postfix.Of(t.ID)
	fmt.Fprintf(s.Out, "----- %s selected, and drop.\n", table)
	return Drop(s.DB, s.Prompter, s.Policy(t.Index), table)
}

// DropEmptyStep drops each postfixed table that holds no rows, warning
// but never asking.
type DropEmptyStep struct {
	DB       SQL
	Prompter *confirm.Prompter
	Postfix  Postfix
	Out      io.Writer
}

func (s DropEmptyStep) Handle(t tableset.Table) error {
	table := s.Postfix.Of(t.ID)
	empty, err := IsEmpty(s.DB, table)
	if err != nil || !empty {
		return err
	}
	fmt.Fprintf(s.Out, "----- %s is empty, and drop.\n", table)
	return Drop(s.DB, s.Prompter, confirm.WarnOnly, table)
}

// CountStep records the row count of each postfixed table.
type CountStep struct {
	DB      SQL
	Postfix Postfix
	Out     io.Writer
}

func (s CountStep) Report(t tableset.Table, acc *report.Writer) error {
	table := s.Postfix.Of(t.ID)
	n, err := Count(s.DB, table)
	fmt.Fprintf(s.Out, "%s : %s\n", table, n)
	if rerr := acc.Record(table, n); rerr != nil {
		return rerr
	}
	return err
}

// EmptyStep records 1 for each empty postfixed table and 0 otherwise.
type EmptyStep struct {
	DB      SQL
	Postfix Postfix
	Out     io.Writer
}

func (s EmptyStep) Report(t tableset.Table, acc *report.Writer) error {
	table := s.Postfix.Of(t.ID)
	empty, err := IsEmpty(s.DB, table)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "%s : %t\n", table, empty)
	v := "0"
	if empty {
		v = "1"
	}
	return acc.Record(table, v)
}
