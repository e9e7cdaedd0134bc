// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Scan reads a registry document and extracts its records. It does not
// interpret them: cross references are left to Build.
func Scan(r io.Reader) (*Records, error) {
	var s scanner
	d := xml.NewDecoder(r)
	if err := d.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &s.recs, nil
}

type scanner struct {
	recs Records
}

func (s *scanner) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		t, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch t := t.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "types":
				err = s.decodeTypes(d, &t)
			case "groups":
				err = s.decodeGroups(d, &t)
			case "enums":
				err = s.decodeEnums(d, &t)
			case "commands":
				err = s.decodeCommands(d, &t)
			case "feature":
				err = s.decodeFeature(d, &t)
			case "extension":
				err = s.decodeExtension(d, &t)
			case "extensions":
				// descend into the <extension> children
				depth++
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		case xml.CharData:
		case xml.Comment:
		case xml.ProcInst:
		case xml.Directive:
		default:
			return fmt.Errorf("unexpected token type %T", t)
		}
	}
}

func (s *scanner) decodeTypes(d *xml.Decoder, start *xml.StartElement) error {
	var ts struct {
		Types []struct {
			Name     string `xml:"name,attr"`
			API      string `xml:"api,attr"`
			Comment  string `xml:"comment,attr"`
			Requires string `xml:"requires,attr"`
			NameElem string `xml:"name"`
			Inner    string `xml:",innerxml"`
		} `xml:"type"`
	}
	if err := d.DecodeElement(&ts, start); err != nil {
		return err
	}
	for _, t := range ts.Types {
		name := t.NameElem
		if name == "" {
			name = t.Name
		}
		s.recs.Types = append(s.recs.Types, TypeRecord{
			Name:     name,
			API:      t.API,
			Text:     innerText(t.Inner, ""),
			Comment:  t.Comment,
			Requires: t.Requires,
		})
	}
	return nil
}

func (s *scanner) decodeGroups(d *xml.Decoder, start *xml.StartElement) error {
	var gs struct {
		Groups []struct {
			Name  string `xml:"name,attr"`
			Enums []struct {
				Name string `xml:"name,attr"`
			} `xml:"enum"`
		} `xml:"group"`
	}
	if err := d.DecodeElement(&gs, start); err != nil {
		return err
	}
	for _, g := range gs.Groups {
		rec := GroupRecord{Name: g.Name, Members: make([]string, 0, len(g.Enums))}
		for _, e := range g.Enums {
			rec.Members = append(rec.Members, e.Name)
		}
		s.recs.Groups = append(s.recs.Groups, rec)
	}
	return nil
}

func (s *scanner) decodeEnums(d *xml.Decoder, start *xml.StartElement) error {
	var es struct {
		Namespace string `xml:"namespace,attr"`
		Group     string `xml:"group,attr"`
		Type      string `xml:"type,attr"`
		Start     string `xml:"start,attr"`
		End       string `xml:"end,attr"`
		Vendor    string `xml:"vendor,attr"`
		Comment   string `xml:"comment,attr"`
		Enums     []struct {
			Name    string `xml:"name,attr"`
			Value   string `xml:"value,attr"`
			Alias   string `xml:"alias,attr"`
			Comment string `xml:"comment,attr"`
			API     string `xml:"api,attr"`
			Type    string `xml:"type,attr"`
			Group   string `xml:"group,attr"`
		} `xml:"enum"`
	}
	if err := d.DecodeElement(&es, start); err != nil {
		return err
	}
	blk := EnumBlockRecord{
		Namespace: es.Namespace,
		Group:     es.Group,
		Type:      es.Type,
		Start:     es.Start,
		End:       es.End,
		Vendor:    es.Vendor,
		Comment:   es.Comment,
		Enums:     make([]EnumRecord, 0, len(es.Enums)),
	}
	for _, e := range es.Enums {
		blk.Enums = append(blk.Enums, EnumRecord{
			Name:    e.Name,
			Value:   e.Value,
			Alias:   e.Alias,
			Comment: e.Comment,
			API:     e.API,
			Type:    e.Type,
			Groups:  splitList(e.Group, ","),
		})
	}
	s.recs.EnumBlocks = append(s.recs.EnumBlocks, blk)
	return nil
}

func (s *scanner) decodeCommands(d *xml.Decoder, start *xml.StartElement) error {
	var cmds struct {
		Commands []struct {
			Proto struct {
				Type  string `xml:"ptype"`
				Name  string `xml:"name"`
				Inner string `xml:",innerxml"`
			} `xml:"proto"`
			Params []struct {
				Group string `xml:"group,attr"`
				Len   string `xml:"len,attr"`
				Type  string `xml:"ptype"`
				Name  string `xml:"name"`
				Inner string `xml:",innerxml"`
			} `xml:"param"`
			Alias struct {
				Name string `xml:"name,attr"`
			} `xml:"alias"`
			GLX []GLX `xml:"glx"`
		} `xml:"command"`
	}
	if err := d.DecodeElement(&cmds, start); err != nil {
		return err
	}
	for _, xc := range cmds.Commands {
		c := CommandRecord{
			Name:       xc.Proto.Name,
			ReturnType: xc.Proto.Type,
			ReturnText: innerText(xc.Proto.Inner, "name"),
			Alias:      xc.Alias.Name,
			Params:     make([]ParamRecord, 0, len(xc.Params)),
			GLX:        xc.GLX,
		}
		for _, xp := range xc.Params {
			c.Params = append(c.Params, ParamRecord{
				Name:  xp.Name,
				Type:  xp.Type,
				Group: xp.Group,
				Len:   xp.Len,
				Text:  innerText(xp.Inner, ""),
			})
		}
		s.recs.Commands = append(s.recs.Commands, c)
	}
	return nil
}

func (s *scanner) decodeFeature(d *xml.Decoder, start *xml.StartElement) error {
	var f FeatureRecord
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "api":
			f.API = a.Value
		case "name":
			f.Name = a.Value
		case "number":
			f.Number = a.Value
		}
	}
	deltas, err := decodeDeltas(d)
	if err != nil {
		return err
	}
	f.Deltas = deltas
	s.recs.Features = append(s.recs.Features, f)
	return nil
}

func (s *scanner) decodeExtension(d *xml.Decoder, start *xml.StartElement) error {
	var e ExtensionRecord
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "name":
			e.Name = a.Value
		case "supported":
			e.Supported = a.Value
		}
	}
	deltas, err := decodeDeltas(d)
	if err != nil {
		return err
	}
	e.Deltas = deltas
	s.recs.Extensions = append(s.recs.Extensions, e)
	return nil
}

// decodeDeltas reads the <require> and <remove> children of the current
// element up to its end tag, keeping their relative order.
func decodeDeltas(d *xml.Decoder) ([]DeltaRecord, error) {
	type ref struct {
		Name string `xml:"name,attr"`
	}
	var deltas []DeltaRecord
	for {
		t, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := t.(type) {
		case xml.StartElement:
			var mode Mode
			switch t.Name.Local {
			case "require":
				mode = Require
			case "remove":
				mode = Remove
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			var xd struct {
				Profile  string `xml:"profile,attr"`
				API      string `xml:"api,attr"`
				Comment  string `xml:"comment,attr"`
				Enums    []ref  `xml:"enum"`
				Commands []ref  `xml:"command"`
				Types    []ref  `xml:"type"`
			}
			if err := d.DecodeElement(&xd, &t); err != nil {
				return nil, err
			}
			dr := DeltaRecord{
				Mode:    mode,
				Profile: xd.Profile,
				API:     xd.API,
				Comment: xd.Comment,
			}
			for _, r := range xd.Enums {
				dr.Enums = append(dr.Enums, r.Name)
			}
			for _, r := range xd.Commands {
				dr.Commands = append(dr.Commands, r.Name)
			}
			for _, r := range xd.Types {
				dr.Types = append(dr.Types, r.Name)
			}
			deltas = append(deltas, dr)
		case xml.EndElement:
			return deltas, nil
		}
	}
}

// innerText returns the character data of an inner XML fragment, leaving
// out the content of elements named skip.
func innerText(inner, skip string) string {
	d := xml.NewDecoder(strings.NewReader(inner))
	var (
		b       strings.Builder
		skipped int
	)
	for {
		t, err := d.Token()
		if err != nil {
			break
		}
		switch t := t.(type) {
		case xml.StartElement:
			if skipped > 0 || (skip != "" && t.Name.Local == skip) {
				skipped++
			}
		case xml.EndElement:
			if skipped > 0 {
				skipped--
			}
		case xml.CharData:
			if skipped == 0 {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func splitList(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
