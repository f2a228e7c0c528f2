// Package access holds the ownership predicates every task and
// notification operation consults. They are pure functions over identity
// ids; callers translate a false result into a PermissionDenied failure,
// except list queries, which pre-filter to matching rows instead.
package access

// CanAccessTask reports whether userID may read the task with the given
// creator and assignee.
func CanAccessTask(creatorID, assignedToID, userID string) bool {
	if userID == "" {
		return false
	}
	return userID == creatorID || userID == assignedToID
}

// CanModifyTask is the same relationship as read access: both stakeholders
// may update.
func CanModifyTask(creatorID, assignedToID, userID string) bool {
	return CanAccessTask(creatorID, assignedToID, userID)
}

// CanDeleteTask allows only the creator; the assignee may not delete.
func CanDeleteTask(creatorID, userID string) bool {
	return userID != "" && userID == creatorID
}

// CanManageNotification allows only the notification's recipient to read,
// mark, or delete it.
func CanManageNotification(recipientID, userID string) bool {
	return userID != "" && userID == recipientID
}
