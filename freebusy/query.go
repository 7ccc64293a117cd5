package freebusy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/gatherkit/scheduling/interval"
)

const caldavNamespace = "urn:ietf:params:xml:ns:caldav"

// Query describes a CalDAV free-busy-query REPORT: the window over which a
// participant's busy periods are requested.
type Query struct {
	Window interval.Interval
}

// BuildQuery renders the free-busy-query REPORT request body sent to a
// CalDAV-style provider.
func BuildQuery(q Query) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("C:free-busy-query")
	root.CreateAttr("xmlns:C", caldavNamespace)

	timeRange := root.CreateElement("C:time-range")
	timeRange.CreateAttr("start", q.Window.Start.UTC().Format(periodTimeLayout))
	timeRange.CreateAttr("end", q.Window.End.UTC().Format(periodTimeLayout))

	doc.Indent(2)
	return doc.WriteToString()
}

// ParseQuery parses a free-busy-query REPORT request body into a Query.
func ParseQuery(xmlStr string) (Query, error) {
	if xmlStr == "" {
		return Query{}, errors.New("empty XML document")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlStr); err != nil {
		return Query{}, err
	}

	root := doc.Root()
	if root == nil {
		return Query{}, errors.New("missing free-busy-query root element")
	}
	if localName(root.Tag) != "free-busy-query" {
		return Query{}, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	timeRangeElem := findElementIgnoreNS(root, "time-range")
	if timeRangeElem == nil {
		return Query{}, errors.New("missing time-range element")
	}

	start, err := time.Parse(periodTimeLayout, timeRangeElem.SelectAttrValue("start", ""))
	if err != nil {
		return Query{}, fmt.Errorf("invalid time-range start: %w", err)
	}
	end, err := time.Parse(periodTimeLayout, timeRangeElem.SelectAttrValue("end", ""))
	if err != nil {
		return Query{}, fmt.Errorf("invalid time-range end: %w", err)
	}

	window, err := interval.New(start, end)
	if err != nil {
		return Query{}, err
	}
	return Query{Window: window}, nil
}

// findElementIgnoreNS finds the first child element with the given local name, ignoring namespace
func findElementIgnoreNS(parent *etree.Element, localName string) *etree.Element {
	for _, child := range parent.ChildElements() {
		tagName := child.Tag
		if strings.Contains(tagName, ":") {
			tagName = strings.Split(tagName, ":")[1]
		}
		if strings.EqualFold(tagName, localName) {
			return child
		}
	}
	return nil
}

func localName(tag string) string {
	if strings.Contains(tag, ":") {
		return strings.Split(tag, ":")[1]
	}
	return tag
}
