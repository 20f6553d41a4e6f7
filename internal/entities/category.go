package entities

import "fmt"

// Category is the fixed catalog of service types a request can be filed under.
type Category string

const (
	CategoryMaintenance  Category = "maintenance"
	CategoryRepair       Category = "repair"
	CategoryInspection   Category = "inspection"
	CategoryAssistance   Category = "assistance"
	CategorySalePurchase Category = "sale_purchase"
)

func AllCategories() []Category {
	return []Category{
		CategoryMaintenance, CategoryRepair, CategoryInspection,
		CategoryAssistance, CategorySalePurchase,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryMaintenance, CategoryRepair, CategoryInspection,
		CategoryAssistance, CategorySalePurchase:
		return true
	}
	return false
}

func ParseCategory(v string) (Category, error) {
	c := Category(v)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown service category %q", v)
	}
	return c, nil
}

// RequiresBoat reports whether a boat reference is mandatory for the category.
// Sale/purchase requests may exist before any boat does.
func (c Category) RequiresBoat() bool {
	return c != CategorySalePurchase
}

func (c Category) Label() string {
	switch c {
	case CategoryMaintenance:
		return "Entretien"
	case CategoryRepair:
		return "Réparation"
	case CategoryInspection:
		return "Contrôle"
	case CategoryAssistance:
		return "Assistance"
	case CategorySalePurchase:
		return "Achat/Vente"
	}
	panic(fmt.Sprintf("unhandled category %q", string(c)))
}
