package cts2

import (
	"encoding/xml"
)

// MapEntryMsg is a single map entry with its heading.
type MapEntryMsg struct {
	XMLName        xml.Name `xml:"MapEntryMsg"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsCore      string   `xml:"xmlns:core,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	Heading Heading  `xml:"core:heading"`
	Entry   MapEntry `xml:"entry"`
}

// Heading describes the resource a message was produced from.
type Heading struct {
	ResourceRoot string `xml:"core:resourceRoot"`
	ResourceURI  string `xml:"core:resourceURI"`
	AccessDate   string `xml:"core:accessDate"`
}

// MapEntry maps one CUI to its set of targets.
type MapEntry struct {
	EntryState     string `xml:"entryState,attr"`
	ProcessingRule string `xml:"processingRule,attr"`

	AssertedBy AssertedBy      `xml:"assertedBy"`
	MapFrom    EntityReference `xml:"mapFrom"`
	MapSet     MapSet          `xml:"mapSet"`
}

// AssertedBy names the map version asserting an entry.
type AssertedBy struct {
	MapVersion NameAndURI `xml:"core:mapVersion"`
	Map        NameAndURI `xml:"core:map"`
}

// NameAndURI is a resource name together with its URI.
type NameAndURI struct {
	URI  string `xml:"uri,attr"`
	Name string `xml:",chardata"`
}

// EntityReference refers to a concept of a code system.
type EntityReference struct {
	URI       string `xml:"uri,attr"`
	Href      string `xml:"href,attr,omitempty"`
	Namespace string `xml:"core:namespace"`
	Name      string `xml:"core:name"`
}

// MapSet is the ordered list of targets of an entry.
type MapSet struct {
	ProcessingRule string      `xml:"processingRule,attr"`
	EntryOrder     int         `xml:"entryOrder,attr"`
	Targets        []MapTarget `xml:"mapTarget"`
}

// MapTarget is one target of a map set.
type MapTarget struct {
	EntryOrder int             `xml:"entryOrder,attr"`
	MapTo      EntityReference `xml:"mapTo"`
}

// MapTargetListList holds the targets of several CUIs.
type MapTargetListList struct {
	XMLName         xml.Name `xml:"MapTargetListList"`
	Xmlns           string   `xml:"xmlns,attr"`
	XmlnsCore       string   `xml:"xmlns:core,attr"`
	XmlnsMapVersion string   `xml:"xmlns:mapVersion,attr"`
	XmlnsXSI        string   `xml:"xmlns:xsi,attr"`
	SchemaLocation  string   `xml:"xsi:schemaLocation,attr"`

	Entries []MapTargetList `xml:"entry"`
}

// MapTargetList holds the targets of one CUI.
type MapTargetList struct {
	Entries []MapTargetListEntry `xml:"entry"`
}

// MapTargetListEntry is one target of a MapTargetList.
type MapTargetListEntry struct {
	EntryOrder int             `xml:"entryOrder,attr"`
	MapTo      EntityReference `xml:"mapVersion:mapTo"`
}

// UnknownResourceReference reports an identifier that is not in the map.
type UnknownResourceReference struct {
	XMLName        xml.Name `xml:"UnknownResourceReference"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsCore      string   `xml:"xmlns:core,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	ExceptionType string  `xml:"exceptionType"`
	Message       Message `xml:"message"`
	Severity      string  `xml:"severity"`
}

// Message is a human readable exception message.
type Message struct {
	Value string `xml:"core:value"`
}
