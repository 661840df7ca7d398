package services

// UnitOptions is the list of unit of measure options.
var UnitOptions = []string{
	"Ea",
	"Hr",
	"Day",
	"Sq Ft",
	"Ln Ft",
	"Lot",
}

// CategoryOptions is the list of library item category options.
var CategoryOptions = []string{
	"Demolition",
	"Framing",
	"Electrical",
	"Plumbing",
	"Finishes",
	"General",
}

// TemplateCategoryOptions is the list of template category options.
var TemplateCategoryOptions = []string{
	"Demolition",
	"Framing",
	"Electrical",
	"Plumbing",
	"Finishes",
	"General",
	"Remodel",
}

// DocumentTypeOptions is the list of document types a template can be
// stamped onto.
var DocumentTypeOptions = []string{
	"estimate",
	"invoice",
	"work_order",
}
