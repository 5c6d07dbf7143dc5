package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	seller := Caller{ID: "seller-1", Role: RoleSeller}
	otherSeller := Caller{ID: "seller-2", Role: RoleSeller}
	client := Caller{ID: "client-1", Role: RoleClient}
	admin := Caller{ID: "admin-1", Role: RoleAdmin}

	tests := []struct {
		name      string
		entity    Entity
		action    Action
		caller    Caller
		ownerID   string
		ownerType OwnerType
		reason    string
	}{
		{"seller creates product", EntityProduct, ActionCreate, seller, "", "", ""},
		{"client creates product", EntityProduct, ActionCreate, client, "", "", "Only sellers can create products."},
		{"owner updates product", EntityProduct, ActionUpdate, seller, "seller-1", "", ""},
		{"other seller updates product", EntityProduct, ActionUpdate, otherSeller, "seller-1", "", productNotOwned},
		{"client updates product", EntityProduct, ActionUpdate, client, "client-1", "", "Only sellers can update products."},
		{"other seller deletes product", EntityProduct, ActionDelete, otherSeller, "seller-1", "", productNotOwned},
		{"client deletes product", EntityProduct, ActionDelete, client, "seller-1", "", "Only sellers can delete products."},

		{"admin creates category", EntityCategory, ActionCreate, admin, "", "", ""},
		{"seller creates category", EntityCategory, ActionCreate, seller, "", "", categoriesByAdmin},
		{"client deletes category", EntityCategory, ActionDelete, client, "", "", categoriesByAdmin},

		{"client uploads own avatar", EntityMedia, ActionUpload, client, "client-1", OwnerUser, ""},
		{"client uploads avatar for someone else", EntityMedia, ActionUpload, client, "seller-1", OwnerUser, "You can only upload an avatar for yourself"},
		{"admin uploads own avatar", EntityMedia, ActionUpload, admin, "admin-1", OwnerUser, "Only Sellers and Clients can upload user avatars"},
		{"seller uploads product image", EntityMedia, ActionUpload, seller, "product-1", OwnerProduct, ""},
		{"client uploads product image", EntityMedia, ActionUpload, client, "product-1", OwnerProduct, "Only Seller can upload product images"},

		{"seller updates own media", EntityMedia, ActionUpdate, seller, "seller-1", OwnerProduct, ""},
		{"client updates own avatar", EntityMedia, ActionUpdate, client, "client-1", OwnerUser, "Only sellers can update images"},
		{"seller updates foreign media", EntityMedia, ActionUpdate, seller, "seller-2", OwnerUser, "You can only update your own media"},

		{"client deletes own avatar", EntityMedia, ActionDelete, client, "client-1", OwnerUser, ""},
		{"client deletes foreign avatar", EntityMedia, ActionDelete, client, "seller-1", OwnerUser, "You can only delete your own avatar"},
		{"admin deletes own avatar", EntityMedia, ActionDelete, admin, "admin-1", OwnerUser, "Only Sellers or Clients can delete user avatars"},
		{"seller deletes own product image", EntityMedia, ActionDelete, seller, "seller-1", OwnerProduct, ""},
		{"client deletes product image", EntityMedia, ActionDelete, client, "client-1", OwnerProduct, "Only sellers can delete product images"},
		{"seller deletes foreign product image", EntityMedia, ActionDelete, otherSeller, "seller-1", OwnerProduct, "You can only delete your own product images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.entity, tt.action, tt.caller, tt.ownerID, tt.ownerType)
			if tt.reason == "" {
				assert.True(t, d.Allowed)
				assert.Empty(t, d.Reason)
				return
			}
			assert.False(t, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestDecide_UnknownCombinationIsForbidden(t *testing.T) {
	d := Decide(EntityProduct, ActionUpload, Caller{ID: "x", Role: RoleSeller}, "x", "")
	assert.False(t, d.Allowed)
}

func TestDecideRole_IgnoresOwnership(t *testing.T) {
	otherSeller := Caller{ID: "seller-2", Role: RoleSeller}

	assert.True(t, DecideRole(EntityProduct, ActionDelete, otherSeller, "").Allowed)
	assert.True(t, DecideRole(EntityMedia, ActionUpdate, otherSeller, "").Allowed)

	d := DecideRole(EntityMedia, ActionUpdate, Caller{ID: "c", Role: RoleClient}, "")
	assert.False(t, d.Allowed)
	assert.Equal(t, "Only sellers can update images", d.Reason)
}
