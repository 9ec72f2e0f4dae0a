package main

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-hdfeos/hdfeos"
)

// Report is everything hdfeos-inspect prints about a file.
type Report struct {
	File   string        `yaml:"file"`
	Swaths []SwathReport `yaml:"swaths"`
}

// SwathReport describes one swath.
type SwathReport struct {
	Name   string        `yaml:"name"`
	Groups []GroupReport `yaml:"groups,omitempty"`
}

// GroupReport describes one group and its non-group members.
type GroupReport struct {
	Path    string         `yaml:"path"`
	Members []MemberReport `yaml:"members,omitempty"`
}

// MemberReport describes a table or an array.
type MemberReport struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Type    string `yaml:"type,omitempty"`
	Shape   []int  `yaml:"shape,omitempty"`
	Records int    `yaml:"records,omitempty"`
	Fields  int    `yaml:"fields,omitempty"`
	Bytes   int64  `yaml:"bytes"`
}

func collect(c *hdfeos.Container, only string) (*Report, error) {
	names, err := c.Swaths()
	if err != nil {
		return nil, err
	}
	if only != "" {
		names = []string{only}
	}

	r := &Report{File: c.Name()}
	for _, name := range names {
		sr, err := collectSwath(c, name)
		if err != nil {
			return nil, err
		}
		r.Swaths = append(r.Swaths, sr)
	}
	return r, nil
}

func collectSwath(c *hdfeos.Container, name string) (sr SwathReport, err error) {
	sr.Name = name
	sw, err := c.OpenSwath(name)
	if err != nil {
		return sr, err
	}
	defer func() {
		if cerr := sw.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	for _, field := range []string{hdfeos.DataFields, hdfeos.GeolocationFields, hdfeos.SwathAttributes} {
		if !sw.Has(field) {
			continue
		}
		g, err := sw.Field(field)
		if err != nil {
			return sr, err
		}
		groups, err := collectGroup(g)
		if err != nil {
			return sr, err
		}
		sr.Groups = append(sr.Groups, groups...)
	}
	return sr, nil
}

// collectGroup walks g and returns one GroupReport per group below it, in
// walk order.
func collectGroup(g *hdfeos.Group) ([]GroupReport, error) {
	var groups []GroupReport
	index := make(map[string]int)

	err := hdfeos.Walk(g, func(p string, obj hdfeos.Object, err error) error {
		if err != nil {
			return err
		}
		if obj.Kind() == hdfeos.KindGroup {
			index[p] = len(groups)
			groups = append(groups, GroupReport{Path: p})
			return nil
		}
		i := index[path.Dir(p)]
		groups[i].Members = append(groups[i].Members, describe(obj))
		return nil
	})
	return groups, err
}

func describe(obj hdfeos.Object) MemberReport {
	m := MemberReport{Name: obj.Name(), Kind: obj.Kind().String()}
	switch o := obj.(type) {
	case *hdfeos.Table:
		m.Records = o.Records()
		m.Fields = len(o.Fields())
		m.Bytes = int64(o.Records()) * int64(o.Size())
	case *hdfeos.ArrayDataset:
		m.Type = o.Type().String()
		m.Shape = o.Dims()
		m.Bytes = int64(o.Type().Size())
		for _, d := range m.Shape {
			m.Bytes *= int64(d)
		}
	}
	return m
}

func renderYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func renderTable(w io.Writer, r *Report) {
	for _, sr := range r.Swaths {
		fmt.Fprintf(w, "Swath %q\n", sr.Name)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Group", "Name", "Kind", "Type", "Shape", "Size"})
		table.SetAutoMergeCells(true)
		for _, g := range sr.Groups {
			if len(g.Members) == 0 {
				table.Append([]string{g.Path, "", "", "", "", ""})
				continue
			}
			for _, m := range g.Members {
				table.Append([]string{g.Path, m.Name, m.Kind, m.Type, shape(m), units.HumanSize(float64(m.Bytes))})
			}
		}
		table.Render()
	}
}

func shape(m MemberReport) string {
	if m.Kind == hdfeos.KindTable.String() {
		return fmt.Sprintf("%d records x %d fields", m.Records, m.Fields)
	}
	dims := make([]string, len(m.Shape))
	for i, d := range m.Shape {
		dims[i] = fmt.Sprint(d)
	}
	return strings.Join(dims, "x")
}
