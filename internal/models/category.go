package models

// Category groups transactions. A category is either a shared default
// (no owner, IsDefault=true) or owned by exactly one user (IsDefault=false).
type Category struct {
	Base
	Name        string  `gorm:"size:50;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description,omitempty"`
	Icon        string  `gorm:"size:50" json:"icon,omitempty"`
	Color       string  `gorm:"size:7" json:"color,omitempty"`
	IsDefault   bool    `gorm:"not null;default:false" json:"is_default"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
	OwnerID     *string `gorm:"type:uuid;index" json:"owner_id,omitempty"`
}

// Ownership describes who may mutate a category. The only implementations are
// DefaultOwnership and UserOwnership.
type Ownership interface {
	isOwnership()
}

// DefaultOwnership marks a shared category visible to every user and
// immutable outside the seeding path.
type DefaultOwnership struct{}

// UserOwnership marks a category owned by a single user.
type UserOwnership struct {
	UserID string
}

func (DefaultOwnership) isOwnership() {}
func (UserOwnership) isOwnership()    {}

// Ownership returns the category's ownership variant. A row flagged as
// default, or one with no owner, is treated as shared.
func (c *Category) Ownership() Ownership {
	if c.IsDefault || c.OwnerID == nil {
		return DefaultOwnership{}
	}
	return UserOwnership{UserID: *c.OwnerID}
}

// CategoryDetails are the user-editable fields of a category.
type CategoryDetails struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// NewDefaultCategory builds an active shared category.
func NewDefaultCategory(d CategoryDetails) *Category {
	return &Category{
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		IsDefault:   true,
		IsActive:    true,
	}
}

// NewUserCategory builds an active category owned by userID.
func NewUserCategory(userID string, d CategoryDetails) *Category {
	owner := userID
	return &Category{
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		IsDefault:   false,
		IsActive:    true,
		OwnerID:     &owner,
	}
}

// Apply overwrites the editable fields with d.
func (c *Category) Apply(d CategoryDetails) {
	c.Name = d.Name
	c.Description = d.Description
	c.Icon = d.Icon
	c.Color = d.Color
}
