package prefs

import "fmt"

// cityNames is the pool of stable session names, assigned in discovery order.
var cityNames = []string{
	"tokyo", "paris", "london", "berlin", "sydney", "cairo", "mumbai", "seoul",
	"rome", "vienna", "prague", "lisbon", "dublin", "oslo", "stockholm", "helsinki",
	"amsterdam", "brussels", "zurich", "milan", "barcelona", "madrid", "athens",
	"istanbul", "dubai", "singapore", "bangkok", "hanoi", "manila", "jakarta",
	"nairobi", "lagos", "casablanca", "capetown", "montreal", "vancouver", "seattle",
	"denver", "austin", "miami", "boston", "chicago", "portland", "phoenix",
	"havana", "lima", "bogota", "santiago", "buenosaires", "rio", "saopaulo",
	"reykjavik", "tallinn", "riga", "vilnius", "warsaw", "budapest", "bucharest",
	"sofia", "belgrade", "zagreb", "ljubljana", "bratislava", "kyiv", "minsk",
}

// SessionName returns the stable human-friendly name for a session id,
// assigning and persisting a new one on first sight. Names come from a fixed
// city pool; once exhausted, a numeric suffix disambiguates.
func (f *File) SessionName(sessionID string) (string, error) {
	p, err := f.Load()
	if err != nil {
		return "", err
	}

	if name, ok := p.SessionNames[sessionID]; ok {
		return name, nil
	}

	name := nextName(p.SessionNames)
	if p.SessionNames == nil {
		p.SessionNames = make(map[string]string)
	}
	p.SessionNames[sessionID] = name

	if err := f.Save(p); err != nil {
		return "", err
	}
	return name, nil
}

// SessionNames returns all recorded id-to-name mappings.
func (f *File) SessionNames() (map[string]string, error) {
	p, err := f.Load()
	if err != nil {
		return nil, err
	}
	if p.SessionNames == nil {
		return map[string]string{}, nil
	}
	return p.SessionNames, nil
}

func nextName(assigned map[string]string) string {
	used := make(map[string]bool, len(assigned))
	for _, name := range assigned {
		used[name] = true
	}

	for _, name := range cityNames {
		if !used[name] {
			return name
		}
	}

	base := cityNames[len(assigned)%len(cityNames)]
	return fmt.Sprintf("%s-%d", base, len(assigned)/len(cityNames)+1)
}
