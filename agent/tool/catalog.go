package tool

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

type param struct {
	name     string
	kind     schema.DataType
	desc     string
	required bool
}

type toolSpec struct {
	name   contractx.ToolName
	desc   string
	params []param
}

// catalog is the single description of the registry's tools; Infos and
// Summary both render it.
var catalog = []toolSpec{
	{
		name: contractx.ToolCheckOrderStatus,
		desc: "Look up the shipping status and estimated delivery date of an order.",
		params: []param{
			{name: "order_id", kind: schema.String, desc: "order number, at least 6 digits", required: true},
		},
	},
	{
		name: contractx.ToolRetrieveReturnPolicy,
		desc: "Summarise the store's return and refund policy.",
	},
	{
		name: contractx.ToolCalcPrice,
		desc: "Calculate the total price with 10% tax for a quantity and unit price.",
		params: []param{
			{name: "quantity", kind: schema.Integer, desc: "number of items, default 1"},
			{name: "unit_price", kind: schema.Number, desc: "price of one item", required: true},
			{name: "currency", kind: schema.String, desc: "currency code, defaults to the home currency"},
		},
	},
}

// Infos describes the registry's tools in eino's tool schema.
func Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(catalog))
	for _, spec := range catalog {
		info := &schema.ToolInfo{Name: string(spec.name), Desc: spec.desc}
		if len(spec.params) > 0 {
			params := make(map[string]*schema.ParameterInfo, len(spec.params))
			for _, p := range spec.params {
				params[p.name] = &schema.ParameterInfo{Type: p.kind, Desc: p.desc, Required: p.required}
			}
			info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
		}
		infos = append(infos, info)
	}
	return infos
}

// Summary renders one line per tool for the chitchat prompt, e.g.
// "- calc_price: ... Inputs: quantity (integer, number of items, default 1), ..."
func Summary() string {
	lines := make([]string, 0, len(catalog))
	for _, spec := range catalog {
		line := fmt.Sprintf("- %s: %s", spec.name, spec.desc)
		if len(spec.params) > 0 {
			inputs := make([]string, 0, len(spec.params))
			for _, p := range spec.params {
				attrs := string(p.kind)
				if p.required {
					attrs += ", required"
				}
				inputs = append(inputs, fmt.Sprintf("%s (%s, %s)", p.name, attrs, p.desc))
			}
			line += " Inputs: " + strings.Join(inputs, "; ") + "."
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
