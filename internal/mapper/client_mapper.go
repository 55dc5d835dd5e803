package mapper

import (
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/model"
)

type ClientMapper struct{}

func NewClientMapper() *ClientMapper {
	return &ClientMapper{}
}

func (m *ClientMapper) ToEntity(c *model.Client) *entity.Client {
	if c == nil {
		return nil
	}
	return &entity.Client{
		Name:      c.Name,
		LogoKey:   c.LogoKey,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ClientMapper) ToModel(c *entity.Client) *model.Client {
	if c == nil {
		return nil
	}
	return &model.Client{
		Name:      c.Name,
		LogoKey:   c.LogoKey,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ClientMapper) ToEntities(clients []*model.Client) []*entity.Client {
	entities := make([]*entity.Client, len(clients))
	for i, c := range clients {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ClientMapper) UserToEntity(u *model.ClientUser) *entity.ClientUser {
	if u == nil {
		return nil
	}
	return &entity.ClientUser{
		ClientName:   u.ClientName,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *ClientMapper) UserToModel(u *entity.ClientUser) *model.ClientUser {
	if u == nil {
		return nil
	}
	return &model.ClientUser{
		ClientName:   u.ClientName,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *ClientMapper) UsersToEntities(users []*model.ClientUser) []*entity.ClientUser {
	entities := make([]*entity.ClientUser, len(users))
	for i, u := range users {
		entities[i] = m.UserToEntity(u)
	}
	return entities
}
