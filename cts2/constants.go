package cts2

// XML namespaces.
const (
	NamespaceCore             = "http://schema.omg.org/spec/CTS2/1.0/Core"
	NamespaceMapVersion       = "http://schema.omg.org/spec/CTS2/1.0/MapVersion"
	NamespaceMapEntryServices = "http://schema.omg.org/spec/CTS2/1.0/MapEntryServices"
	NamespaceExceptions       = "http://schema.omg.org/spec/CTS2/1.0/Exceptions"
	NamespaceXSI              = "http://www.w3.org/2001/XMLSchema-instance"
)

// Schema locations.
const (
	SchemaLocationMapVersion       = NamespaceMapVersion + " http://www.omg.org/spec/cts2/201206/mapversion/MapVersion.xsd"
	SchemaLocationMapEntryServices = NamespaceMapEntryServices + " http://www.omg.org/spec/cts2/201206/mapversion/MapEntryServices.xsd"
	SchemaLocationExceptions       = "http://www.omg.org/spec/cts2/201206/core/Exceptions.xsd"
)

const (
	// MapName names the map in URIs and routes.
	MapName = "UMLS_TO_SNOMEDCT"

	// DefaultMapVersion is the UMLS release the map is built from.
	DefaultMapVersion = "2012AA"

	umlsBase        = "http://umls.nlm.nih.gov/sab/MTH"
	snomedBase      = "http://snomed.info/id/"
	snomedHrefBase  = "http://informatics.mayo.edu/cts2/services/sct/cts2/codesystem/SNOMED_CT_core/version/20120731/entity/"
	cuiNamespace    = "cui"
	sctidNamespace  = "sctid"
	entryStateAct   = "ACTIVE"
	allMatches      = "ALL_MATCHES"
	invalidInput    = "INVALID_SERVICE_INPUT"
	severityError   = "ERROR"
	notFoundMessage = "Resource with Identifier - %s not found."
)
