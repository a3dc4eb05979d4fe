// Package seed loads the wire and cable demo catalog for local environments.
package seed

import (
	"errors"

	categorydomain "github.com/boqbill/boqbill/internal/category/domain"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoCompanyName = "Demo Wire Traders"

type demoCategory struct {
	Name        string
	Description string
}

type demoProduct struct {
	Name        string
	Description string
	Category    string
	Unit        string
	Rate        float64
	GST         float64
	HSNCode     string
}

var demoSubcategories = []demoCategory{
	{"PVC Insulated Wires", "PVC insulated copper wires for domestic and industrial use"},
	{"XLPE Insulated Wires", "Cross-linked polyethylene insulated wires for high temperature applications"},
	{"Flexible Wires", "Multi-strand flexible copper wires for movable applications"},
	{"Armoured Cables", "Steel wire armoured cables for underground and outdoor use"},
	{"Unarmoured Cables", "Unarmoured power cables for indoor and controlled environments"},
	{"Control Cables", "Multi-core control cables for automation and control systems"},
	{"Instrumentation Cables", "Shielded instrumentation cables for signal transmission"},
}

var demoProducts = []demoProduct{
	{"PVC Insulated Wire - 1.5 sq mm", "Single core PVC insulated copper wire, 1.5 sq mm, 1100V grade, ISI marked", "PVC Insulated Wires", "Meter", 28.50, 18, "85444910"},
	{"PVC Insulated Wire - 2.5 sq mm", "Single core PVC insulated copper wire, 2.5 sq mm, 1100V grade, ISI marked", "PVC Insulated Wires", "Meter", 42.75, 18, "85444910"},
	{"PVC Insulated Wire - 4.0 sq mm", "Single core PVC insulated copper wire, 4.0 sq mm, 1100V grade, ISI marked", "PVC Insulated Wires", "Meter", 68.90, 18, "85444910"},
	{"PVC Insulated Wire - 6.0 sq mm", "Single core PVC insulated copper wire, 6.0 sq mm, 1100V grade, ISI marked", "PVC Insulated Wires", "Meter", 98.50, 18, "85444910"},
	{"Flexible Wire - 1.5 sq mm", "Multi-strand flexible copper wire, 1.5 sq mm, 1100V grade, ISI marked", "Flexible Wires", "Meter", 32.25, 18, "85444910"},
	{"Flexible Wire - 2.5 sq mm", "Multi-strand flexible copper wire, 2.5 sq mm, 1100V grade, ISI marked", "Flexible Wires", "Meter", 48.90, 18, "85444910"},
	{"Flexible Wire - 4.0 sq mm", "Multi-strand flexible copper wire, 4.0 sq mm, 1100V grade, ISI marked", "Flexible Wires", "Meter", 78.50, 18, "85444910"},
	{"Flexible Wire - 6.0 sq mm", "Multi-strand flexible copper wire, 6.0 sq mm, 1100V grade, ISI marked", "Flexible Wires", "Meter", 112.75, 18, "85444910"},
}

// EnsureDemoCatalog creates the demo company, the electrical wire category
// tree, and the sample product list. It is a no-op when the demo company
// already exists.
func EnsureDemoCatalog(db *gorm.DB, genID *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if genID == nil {
		return errors.New("seed id generator is required")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing companydomain.Company
		err := tx.Where("name = ?", demoCompanyName).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		company := companydomain.Company{
			ID:        genID.Generate().Int64(),
			Name:      demoCompanyName,
			Slug:      slug.Make(demoCompanyName),
			Branding:  datatypes.NewJSONType(companydomain.DefaultBranding()),
			PDFLayout: datatypes.NewJSONType(companydomain.DefaultPDFLayout()),
			ContactInfo: datatypes.NewJSONType(companydomain.ContactInfo{
				Email: "sales@demowiretraders.example",
			}),
			IsActive: true,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		root := categorydomain.Category{
			ID:          genID.Generate().Int64(),
			CompanyID:   company.ID,
			Name:        "Electrical Wires & Cables",
			Description: "Complete range of electrical wires and cables for various applications",
			IsActive:    true,
		}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}

		categoryIDs := make(map[string]int64, len(demoSubcategories))
		for _, dc := range demoSubcategories {
			parentID := root.ID
			cat := categorydomain.Category{
				ID:          genID.Generate().Int64(),
				CompanyID:   company.ID,
				Name:        dc.Name,
				Description: dc.Description,
				ParentID:    &parentID,
				IsActive:    true,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			categoryIDs[dc.Name] = cat.ID
		}

		for _, dp := range demoProducts {
			product := productdomain.Product{
				ID:            genID.Generate().Int64(),
				CompanyID:     company.ID,
				CategoryID:    categoryIDs[dp.Category],
				CategoryName:  dp.Category,
				Name:          dp.Name,
				Description:   dp.Description,
				Unit:          dp.Unit,
				Rate:          dp.Rate,
				GSTPercentage: dp.GST,
				HSNCode:       dp.HSNCode,
				IsActive:      true,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
