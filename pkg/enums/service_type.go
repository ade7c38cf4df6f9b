package enums

import (
	"fmt"
	"strconv"
	"strings"
)

// ServiceType identifies how a service order is priced. The numeric ids are the
// public contract.
type ServiceType int

const (
	ServiceTypePackage    ServiceType = 1
	ServiceTypeNonPackage ServiceType = 2
	ServiceTypeCleaning   ServiceType = 3
)

var serviceTypeNames = map[ServiceType]string{
	ServiceTypePackage:    "Installation Package",
	ServiceTypeNonPackage: "Non Package Installation",
	ServiceTypeCleaning:   "Cleaning",
}

var serviceTypeCodes = map[ServiceType]string{
	ServiceTypePackage:    "PACKAGE",
	ServiceTypeNonPackage: "NON_PACKAGE",
	ServiceTypeCleaning:   "CLEANING",
}

// Name returns the display name.
func (s ServiceType) Name() string {
	return serviceTypeNames[s]
}

// String returns the code, e.g. PACKAGE.
func (s ServiceType) String() string {
	if code, ok := serviceTypeCodes[s]; ok {
		return code
	}
	return strconv.Itoa(int(s))
}

func (s ServiceType) IsValid() bool {
	_, ok := serviceTypeNames[s]
	return ok
}

// IsInstallation reports whether the type belongs to installation orders.
func (s ServiceType) IsInstallation() bool {
	return s == ServiceTypePackage || s == ServiceTypeNonPackage
}

// ParseServiceType accepts the numeric id or the code (PACKAGE, NON_PACKAGE, CLEANING).
func ParseServiceType(value string) (ServiceType, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if st := ServiceType(n); st.IsValid() {
			return st, nil
		}
		return 0, fmt.Errorf("invalid service type %q", value)
	}
	for st, code := range serviceTypeCodes {
		if strings.EqualFold(code, trimmed) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("invalid service type %q", value)
}
