package access

import (
	"fmt"

	"lashstudio/models"
	"lashstudio/utils"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   models.Role
}

// Action names an operation subject to authorization.
type Action string

const (
	UserRead        Action = "user.read"
	UserUpdate      Action = "user.update"
	UserCreate      Action = "user.create"
	UserAdminFields Action = "user.admin_fields"
	UserList        Action = "user.list"

	CatalogWrite Action = "catalog.write"

	AppointmentCreate  Action = "appointment.create"
	AppointmentRead    Action = "appointment.read"
	AppointmentListAll Action = "appointment.list_all"
	AppointmentCancel  Action = "appointment.cancel"
	AppointmentClose   Action = "appointment.close"
	AppointmentNote    Action = "appointment.note"
	AppointmentPrivate Action = "appointment.private_note"

	PaymentIntent Action = "payment.intent"
	PaymentUpdate Action = "payment.update"

	PromoManage    Action = "promo.manage"
	SettingsUpdate Action = "settings.update"
	ContentWrite   Action = "content.write"
	MediaUpload    Action = "media.upload"
	AnalyticsRead  Action = "analytics.read"

	TestimonialCreate Action = "testimonial.create"
)

type rule struct {
	roles []models.Role
	owner bool
	any   bool
}

var (
	adminOnly = []models.Role{models.RoleAdmin}
	staff     = []models.Role{models.RoleTechnician, models.RoleAdmin}
)

var policy = map[Action]rule{
	UserRead:        {roles: adminOnly, owner: true},
	UserUpdate:      {roles: adminOnly, owner: true},
	UserCreate:      {roles: adminOnly},
	UserAdminFields: {roles: adminOnly},
	UserList:        {roles: adminOnly},

	CatalogWrite: {roles: staff},

	AppointmentCreate:  {roles: staff, owner: true},
	AppointmentRead:    {roles: staff, owner: true},
	AppointmentListAll: {roles: staff},
	AppointmentCancel:  {roles: staff, owner: true},
	AppointmentClose:   {roles: staff},
	AppointmentNote:    {roles: staff, owner: true},
	AppointmentPrivate: {roles: staff},

	PaymentIntent: {roles: staff, owner: true},
	PaymentUpdate: {roles: staff},

	PromoManage:    {roles: adminOnly},
	SettingsUpdate: {roles: adminOnly},
	ContentWrite:   {roles: adminOnly},
	MediaUpload:    {roles: adminOnly},
	AnalyticsRead:  {roles: staff},

	TestimonialCreate: {any: true},
}

// Allowed reports whether p may perform action on a resource owned by ownerID.
// Pass an empty ownerID for resources without an owner.
func Allowed(p Principal, action Action, ownerID string) bool {
	r, ok := policy[action]
	if !ok || p.UserID == "" || !p.Role.Valid() {
		return false
	}
	if r.any {
		return true
	}
	for _, role := range r.roles {
		if p.Role == role {
			return true
		}
	}
	return r.owner && ownerID != "" && ownerID == p.UserID
}

// Authorize returns a Forbidden error when p may not perform action.
func Authorize(p Principal, action Action, ownerID string) error {
	if Allowed(p, action, ownerID) {
		return nil
	}
	return utils.NewForbiddenError(fmt.Sprintf("role %q may not perform %s", p.Role, action))
}

// ActionForStatus maps a target appointment status to the action that guards it.
func ActionForStatus(status models.AppointmentStatus) Action {
	if status == models.StatusCancelled {
		return AppointmentCancel
	}
	return AppointmentClose
}
