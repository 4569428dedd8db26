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

package poller

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/carverauto/netmon/pkg/models"
	"github.com/carverauto/netmon/pkg/snmp"
)

const (
	entPhysicalSerialTable = "1.3.6.1.2.1.47.1.1.1.1.11"
	entPhysicalModelTable  = "1.3.6.1.2.1.47.1.1.1.1.13"
	fortinetSerialOID      = "1.3.6.1.4.1.12356.100.1.1.1.0"
	mikrotikFirmwareOID    = "1.3.6.1.4.1.14988.1.1.4.4.0"
)

var ciscoVersionRe = regexp.MustCompile(`Version ([^,\s]+)`)

// PollInventory fetches the slow-changing hardware attributes. A missing
// sysDescr aborts the poll; everything past classification is best-effort.
func (p *Poller) PollInventory(deviceID int) (*models.DeviceInventory, error) {
	session, dc, err := p.session(deviceID)
	if err != nil {
		return nil, err
	}

	sysDescr, err := session.Get(sysDescrOID)
	if err != nil {
		return nil, fmt.Errorf("inventory poll: %w", err)
	}

	descr := snmp.SafeString(sysDescr)
	if descr == "" {
		p.log.Warn().Str("device", dc.Name).Msg("device did not answer sysDescr")
		return nil, fmt.Errorf("%w: no sysDescr from %s", ErrInventoryUnavailable, dc.Name)
	}

	inventory := &models.DeviceInventory{
		DeviceID:  deviceID,
		SysDescr:  descr,
		Vendor:    classifyVendor(descr),
		Timestamp: time.Now().UTC(),
	}

	switch inventory.Vendor {
	case models.VendorCisco:
		inventory.SerialNumber = firstWalkString(session, entPhysicalSerialTable)
		inventory.Model = firstWalkString(session, entPhysicalModelTable)

		if m := ciscoVersionRe.FindStringSubmatch(descr); m != nil {
			inventory.FirmwareVersion = m[1]
		}
	case models.VendorFortinet:
		if serial, getErr := session.Get(fortinetSerialOID); getErr == nil {
			inventory.SerialNumber = snmp.SafeString(serial)
		}
	case models.VendorMikrotik:
		if fw, getErr := session.Get(mikrotikFirmwareOID); getErr == nil {
			inventory.FirmwareVersion = snmp.SafeString(fw)
		}
	}

	p.log.Debug().
		Str("device", dc.Name).
		Str("vendor", inventory.Vendor).
		Str("serial", inventory.SerialNumber).
		Msg("inventory poll complete")

	return inventory, nil
}

// classifyVendor tags a device by substring match on its sysDescr.
func classifyVendor(sysDescr string) string {
	lower := strings.ToLower(sysDescr)

	switch {
	case strings.Contains(lower, "cisco"):
		return models.VendorCisco
	case strings.Contains(lower, "fortinet"), strings.Contains(lower, "fortigate"):
		return models.VendorFortinet
	case strings.Contains(lower, "mikrotik"):
		return models.VendorMikrotik
	default:
		return ""
	}
}

// firstWalkString returns the first non-empty string in a walked column,
// in OID order.
func firstWalkString(session snmp.Client, table string) string {
	rows, err := session.Walk(table)
	if err != nil {
		return ""
	}

	for _, oid := range sortedKeys(rows) {
		if s := snmp.SafeString(rows[oid]); s != "" {
			return s
		}
	}

	return ""
}
