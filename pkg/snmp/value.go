/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package snmp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// parseValue normalizes an SNMP PDU into a native Go value: int64 for
// integer types, float64 for opaque floats, string otherwise. Absent or
// exception values come back as nil. It never panics on odd payloads.
func parseValue(pdu gosnmp.SnmpPDU) interface{} {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return nil
	case gosnmp.Integer, gosnmp.Gauge32, gosnmp.Counter32, gosnmp.Counter64,
		gosnmp.Uinteger32, gosnmp.TimeTicks:
		return gosnmp.ToBigInt(pdu.Value).Int64()
	case gosnmp.OpaqueFloat:
		if f, ok := pdu.Value.(float32); ok {
			return float64(f)
		}

		return stringify(pdu.Value)
	case gosnmp.OpaqueDouble:
		if f, ok := pdu.Value.(float64); ok {
			return f
		}

		return stringify(pdu.Value)
	case gosnmp.OctetString:
		return normalizeString(pdu.Value)
	case gosnmp.IPAddress, gosnmp.ObjectIdentifier:
		return stringify(pdu.Value)
	default:
		return stringify(pdu.Value)
	}
}

// normalizeString coerces octet-string payloads: integer-looking strings
// become int64, numeric-looking become float64, everything else stays a
// trimmed string.
func normalizeString(v interface{}) interface{} {
	var s string

	switch val := v.(type) {
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return stringify(v)
	}

	s = strings.TrimSpace(s)

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}

	if b, ok := v.([]byte); ok {
		return string(b)
	}

	return fmt.Sprintf("%v", v)
}

// numericString reports whether s contains only characters that can appear
// in a number. Vendor OIDs sometimes answer with embedded unit strings or
// error sentinels; those are rejected rather than half-parsed.
func numericString(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return false
		}
	}

	return true
}

// SafeInt64 coerces an SNMP value to int64, returning def for nil, empty,
// or non-numeric input.
func SafeInt64(v interface{}, def int64) int64 {
	switch val := v.(type) {
	case nil:
		return def
	case int:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint64:
		return int64(val)
	case float64:
		return int64(val)
	case string:
		s := strings.TrimSpace(val)
		if !numericString(s) {
			return def
		}

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}

		return def
	default:
		return def
	}
}

// SafeInt is SafeInt64 narrowed to int.
func SafeInt(v interface{}, def int) int {
	return int(SafeInt64(v, int64(def)))
}

// SafeFloat coerces an SNMP value to a float pointer, returning nil for
// absent or non-numeric input.
func SafeFloat(v interface{}) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case int:
		f := float64(val)
		return &f
	case int64:
		f := float64(val)
		return &f
	case uint64:
		f := float64(val)
		return &f
	case float64:
		f := val
		return &f
	case string:
		s := strings.TrimSpace(val)
		if !numericString(s) {
			return nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}

		return nil
	default:
		return nil
	}
}

// SafeString coerces an SNMP value to a trimmed string, "" for nil.
func SafeString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
