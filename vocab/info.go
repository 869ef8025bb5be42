package vocab

// Info is the static reference entry for a class, used to enrich local
// predictions that carry only a label and a score.
type Info struct {
	Name       string   `json:"name"`
	PlantType  string   `json:"plant_type"`
	Symptoms   []string `json:"symptoms"`
	Treatment  []string `json:"treatment"`
	Prevention []string `json:"prevention"`
}

var defaultInfo = Info{
	Symptoms:   []string{"Visible damage on plant", "Abnormal growth or coloration", "Decreased plant vigor"},
	Treatment:  []string{"Remove severely infected parts", "Consider appropriate fungicides or pesticides", "Improve growing conditions"},
	Prevention: []string{"Regular monitoring", "Maintain plant health", "Practice crop rotation"},
}

var infos = map[string]Info{
	"Apple___Apple_scab": {
		Symptoms:   []string{"Dark olive-green spots on leaves", "Velvety texture on spots", "Deformed fruits with dark, scabby lesions"},
		Treatment:  []string{"Remove and destroy infected leaves", "Apply fungicide sprays", "Improve air circulation around trees"},
		Prevention: []string{"Select resistant varieties", "Proper pruning", "Apply preventative fungicide"},
	},
	"Apple___Black_rot": {
		Symptoms:   []string{"Purple spots on leaves", "Rotting fruit with concentric rings", "Cankers on branches"},
		Treatment:  []string{"Remove infected fruit and branches", "Apply fungicides", "Prune out cankers"},
		Prevention: []string{"Maintain tree health", "Remove nearby wild apple trees", "Clean up fallen debris"},
	},
	"Apple___Cedar_apple_rust": {
		Symptoms:   []string{"Bright orange-yellow spots on leaves", "Small yellow spots with red borders", "Deformed fruit"},
		Treatment:  []string{"Remove and destroy infected leaves", "Apply fungicide", "Remove nearby cedar trees"},
		Prevention: []string{"Plant resistant varieties", "Avoid planting near cedar trees", "Preventative fungicide sprays"},
	},
	"Apple___healthy": {
		Symptoms:   []string{},
		Treatment:  []string{"No treatment needed - plant is healthy"},
		Prevention: []string{"Regular monitoring", "Balanced fertilization", "Proper watering"},
	},
}

// Lookup returns the reference entry for an exact vocabulary member.
func Lookup(label string) (Info, bool) {
	if !IsKnown(label) {
		return Info{}, false
	}
	info, ok := infos[label]
	if !ok {
		info = defaultInfo
	}
	info = info.clone()
	info.Name = label
	info.PlantType = PlantType(label)
	if IsHealthy(label) && !ok {
		info.Symptoms = []string{}
		info.Treatment = []string{"No treatment needed - plant is healthy"}
		info.Prevention = []string{"Regular monitoring", "Balanced fertilization", "Proper watering"}
	}
	return info, true
}

// InfoFor returns the reference entry for label, falling back to the
// generic entry for anything outside the vocabulary.
func InfoFor(label string) Info {
	if info, ok := Lookup(label); ok {
		return info
	}
	info := defaultInfo.clone()
	info.Name = label
	return info
}

// clone copies the slices so callers can modify the entry freely.
func (i Info) clone() Info {
	i.Symptoms = append([]string{}, i.Symptoms...)
	i.Treatment = append([]string{}, i.Treatment...)
	i.Prevention = append([]string{}, i.Prevention...)
	return i
}
