package schooldir

import (
	"fmt"
	"os"

	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"

	"gopkg.in/yaml.v2"
)

// registryFile is the on-disk school registry shape:
//
//	schools:
//	  - code: "00001"
//	    name: Stadin skole
//	    type: 11
//	    postal_codes: ["00100"]
//	    district_ids: ["091"]
type registryFile struct {
	Schools []registryRow `yaml:"schools"`
}

type registryRow struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Type        int      `yaml:"type"`
	PostalCodes []string `yaml:"postal_codes"`
	DistrictIDs []string `yaml:"district_ids"`
}

// LoadFile reads a school registry file into a static directory. The
// directory is built once at startup; a missing or malformed file is a
// deployment error and fails loudly.
func LoadFile(path string) (*schools.StaticDirectory, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrSchoolRegistryUnreadable, err)
	}
	return Parse(body)
}

// Parse builds a static directory from registry file content.
func Parse(body []byte) (*schools.StaticDirectory, error) {
	var file registryFile
	if err := yaml.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrSchoolRegistryUnreadable, err)
	}

	items := make([]schools.School, 0, len(file.Schools))
	for _, row := range file.Schools {
		if row.Code == "" {
			continue
		}
		items = append(items, schools.School{
			Code:        row.Code,
			Name:        row.Name,
			Type:        row.Type,
			PostalCodes: row.PostalCodes,
			DistrictIDs: row.DistrictIDs,
		})
	}
	return schools.NewStaticDirectory(items), nil
}
