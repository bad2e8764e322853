package model

// sendTargets maps a sender role onto the set of roles it may address.
// Enforced at notification compose time, before anything is persisted.
var sendTargets = map[UserRole][]UserRole{
	Admin:        {Admin, CourseMaster, HOD, Trainer, Student},
	CourseMaster: {HOD, Trainer, Student},
	HOD:          {Trainer, Student},
	Trainer:      {Student},
}

// CanSendTo reports whether sender may address target. Unknown pairs are
// denied, so Student (and any future role) sends to nobody by default.
func CanSendTo(sender, target UserRole) bool {
	for _, t := range sendTargets[sender] {
		if t == target {
			return true
		}
	}
	return false
}

// SendableRoles returns the roles sender may address, in hierarchy order.
func SendableRoles(sender UserRole) []UserRole {
	return sendTargets[sender]
}
