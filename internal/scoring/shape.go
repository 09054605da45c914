package scoring

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/wonny/quantumedge/internal/contracts"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindInteger
	kindBool
	kindArray
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindInteger:
		return "integer"
	case kindBool:
		return "boolean"
	case kindArray:
		return "array"
	}
	return "unknown"
}

type fieldSpec struct {
	name string
	kind fieldKind
}

// candidateFields is the per-candidate contract. Every field is required.
var candidateFields = []fieldSpec{
	{"id", kindString},
	{"name", kindString},
	{"price", kindNumber},
	{"c1_per", kindNumber},
	{"c2_pbv", kindNumber},
	{"c3_roe", kindNumber},
	{"c4_rsi", kindNumber},
	{"c5_volume", kindNumber},
	{"analysis", kindString},
	{"topsis_score", kindNumber},
	{"alloc_money", kindNumber},
	{"alloc_lots", kindInteger},
	{"is_recommended", kindBool},
	{"history", kindArray},
}

var historyFields = []fieldSpec{
	{"date", kindString},
	{"price", kindNumber},
}

// checkShape verifies the response body against the contract before anything is
// decoded, so a missing field can be told apart from a legitimate zero value.
func checkShape(body []byte) error {
	if !gjson.ValidBytes(body) {
		return &FieldError{Path: "$", Reason: "is not valid JSON"}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return &FieldError{Path: "$", Reason: "is not an object"}
	}

	if err := checkField(root, "", fieldSpec{"timestamp", kindString}); err != nil {
		return err
	}
	if err := checkField(root, "", fieldSpec{"data", kindArray}); err != nil {
		return err
	}

	var shapeErr error
	root.Get("data").ForEach(func(key, item gjson.Result) bool {
		prefix := fmt.Sprintf("data[%d].", key.Int())
		if !item.IsObject() {
			shapeErr = &FieldError{Path: prefix[:len(prefix)-1], Reason: "is not an object"}
			return false
		}
		for _, f := range candidateFields {
			if shapeErr = checkField(item, prefix, f); shapeErr != nil {
				return false
			}
		}
		item.Get("history").ForEach(func(hkey, point gjson.Result) bool {
			hprefix := fmt.Sprintf("%shistory[%d].", prefix, hkey.Int())
			if !point.IsObject() {
				shapeErr = &FieldError{Path: hprefix[:len(hprefix)-1], Reason: "is not an object"}
				return false
			}
			for _, f := range historyFields {
				if shapeErr = checkField(point, hprefix, f); shapeErr != nil {
					return false
				}
			}
			return true
		})
		return shapeErr == nil
	})

	return shapeErr
}

func checkField(obj gjson.Result, prefix string, f fieldSpec) error {
	v := obj.Get(f.name)
	path := prefix + f.name

	if !v.Exists() {
		return &FieldError{Path: path, Reason: "is missing"}
	}

	ok := false
	switch f.kind {
	case kindString:
		ok = v.Type == gjson.String
	case kindNumber:
		ok = v.Type == gjson.Number
	case kindInteger:
		ok = v.Type == gjson.Number && v.Num == math.Trunc(v.Num)
	case kindBool:
		ok = v.Type == gjson.True || v.Type == gjson.False
	case kindArray:
		ok = v.IsArray()
	}

	if !ok {
		return &FieldError{Path: path, Reason: "must be a " + f.kind.String()}
	}
	return nil
}

// readMeta extracts the optional envelope fields leniently: anything with the wrong
// type is ignored rather than failing the response.
func readMeta(body []byte) contracts.Meta {
	meta := contracts.Meta{
		Timestamp: gjson.GetBytes(body, "timestamp").String(),
	}

	if status := gjson.GetBytes(body, "status"); status.Type == gjson.String {
		meta.Status = status.String()
	}

	if capital := gjson.GetBytes(body, "meta.capital"); capital.Type == gjson.Number {
		v := capital.Float()
		meta.Capital = &v
	}

	if strategy := gjson.GetBytes(body, "meta.strategy"); strategy.IsObject() {
		meta.Strategy = make(map[string]int)
		strategy.ForEach(func(k, v gjson.Result) bool {
			if v.Type == gjson.Number {
				meta.Strategy[k.String()] = int(v.Int())
			}
			return true
		})
	}

	return meta
}
