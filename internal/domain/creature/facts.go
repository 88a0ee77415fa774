package creature

// Facts flattens c into the name/value view shared by permit rule expressions
// and scripts. Keys are snake_case and stable.
func Facts(c Creature) map[string]any {
	return map[string]any{
		"guid":            c.GUID().String(),
		"entry":           int(c.Entry()),
		"name":            c.Name(),
		"is_pet":          c.IsPet(),
		"is_controlled":   c.IsControlled(),
		"is_charmed":      c.IsCharmed(),
		"is_totem":        c.IsTotem(),
		"is_guard":        c.IsGuard(),
		"is_civilian":     c.IsCivilian(),
		"react_state":     c.ReactState().String(),
		"ai_name":         c.AIName(),
		"script_name":     c.ScriptName(),
		"owner":           c.OwnerGUID().String(),
		"owner_is_player": c.OwnerGUID().IsPlayer(),
		"has_victim":      !c.Victim().IsEmpty(),
		"health_pct":      c.HealthPercent(),
		"movement_type":   string(c.DefaultMovementType()),
	}
}
