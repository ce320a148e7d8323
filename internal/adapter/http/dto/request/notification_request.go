package request

import "marketplace_api/internal/domain/entities"

type ListNotificationsQuery struct {
	Limit  int  `form:"limit" binding:"omitempty,min=0"`
	Skip   int  `form:"skip" binding:"omitempty,min=0"`
	Unread bool `form:"unread"`
}

func (q ListNotificationsQuery) ToFilter() entities.NotificationListFilter {
	return entities.NotificationListFilter{UnreadOnly: q.Unread, Limit: q.Limit, Skip: q.Skip}
}
