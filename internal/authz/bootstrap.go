package authz

import (
	"fmt"

	"github.com/parlevel-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "party",
			Policies: []Policy{
				{Object: "/ai-order", Action: "POST"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/catalog/:supplier_id/items", Action: "GET"},
			},
		},
		{
			Role:     RoleForKind(constants.PartyKindRestaurant),
			Inherits: []string{"party"},
		},
		{
			Role:     RoleForKind(constants.PartyKindSupplier),
			Inherits: []string{"party"},
			Policies: []Policy{
				{Object: "/supplier/mailbox/poll", Action: "POST"},
				{Object: "/supplier/mailbox/messages", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
