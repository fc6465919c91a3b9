package models

// All returns every model for schema migration, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSettings{},
		&TwoFactor{},
		&Follow{},
		&Post{},
		&Comment{},
		&Like{},
		&Story{},
		&StoryView{},
		&Conversation{},
		&ConversationParticipant{},
		&Message{},
		&MessageReaction{},
		&Notification{},
		&NotificationPreference{},
	}
}
