package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// GetTerminalID reads the physical MAC address of the machine and hashes it
// into a stable till identifier like "POS-A1B2C3D4". Receipt numbers are
// stamped with it so two tills never produce colliding references.
func GetTerminalID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "POS-UNKNOWN"
	}

	var macAddress string
	for _, i := range interfaces {
		// Find the first active physical network interface
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}

	if macAddress == "" {
		return "POS-UNKNOWN"
	}

	hash := sha256.Sum256([]byte(macAddress + "GLOW-POS-TERMINAL"))
	hashString := hex.EncodeToString(hash[:])

	return "POS-" + strings.ToUpper(hashString[:8])
}
