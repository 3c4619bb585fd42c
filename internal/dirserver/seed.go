package dirserver

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kestrad/roster/internal/directory"
)

var seedFirstNames = []string{
	"Ada", "Bram", "Carla", "Dmitri", "Elena",
	"Farid", "Greta", "Hugo", "Ines", "Jonas",
	"Kira", "Lars", "Mona", "Niels", "Olga",
}

var seedLastNames = []string{
	"Abrams", "Berg", "Castillo", "Dorsey", "Eriksen",
	"Fontaine", "Grau", "Holt", "Ivanova", "Jansen",
	"Kovacs", "Lindqvist", "Moreau", "Novak", "Oyelaran",
}

// Seed fills the store with count deterministic demo records. Roughly one in
// seven is inactive and one in five has never signed in, so filters and
// empty fields have something to show.
func Seed(records *Store[directory.UserDetail], roles []string, count int) {
	base := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		first := seedFirstNames[i%len(seedFirstNames)]
		last := seedLastNames[(i/len(seedFirstNames))%len(seedLastNames)]
		id := records.NextID()
		created := base.Add(time.Duration(i) * 37 * time.Minute)

		record := directory.UserDetail{
			User: directory.User{
				ID:       id,
				UserName: strings.ToLower(first[:1] + last),
				FullName: first + " " + last,
				Email:    strings.ToLower(first+"."+last) + "@example.com",
				IsActive: i%7 != 3,
			},
			PhoneNumber: fmt.Sprintf("555-01%02d", i%100),
			Roles:       seedRoles(roles, i),
			CreatedAt:   created.Format(time.RFC3339),
			UpdatedAt:   created.Add(90 * time.Minute).Format(time.RFC3339),
		}
		if i%5 != 2 {
			record.LastLoginAt = created.Add(200 * time.Hour).Format(time.RFC3339)
		}
		records.Set(id, record)
	}
}

// seedRoles assigns a small, varied subset of the catalog.
func seedRoles(roles []string, i int) []string {
	if len(roles) == 0 {
		return []string{}
	}
	assigned := []string{roles[i%len(roles)]}
	if i%3 == 0 && len(roles) > 1 {
		second := roles[(i+1)%len(roles)]
		if second != assigned[0] {
			assigned = append(assigned, second)
		}
	}
	return assigned
}

// LoadSeed replaces nothing but adds the records from a JSON fixture file
// holding an array of full user records. Records without an ID get a
// generated one.
func LoadSeed(records *Store[directory.UserDetail], path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var fixtures []directory.UserDetail
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	for _, record := range fixtures {
		if record.ID == "" {
			record.ID = records.NextID()
		}
		if record.Roles == nil {
			record.Roles = []string{}
		}
		records.Set(record.ID, record)
	}
	return nil
}
