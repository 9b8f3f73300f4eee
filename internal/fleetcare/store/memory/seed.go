package memory

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// DateLayout is the layout of every date in a seed file. Dates are UTC midnight.
const DateLayout = time.DateOnly

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the on-disk fixture format.
type Seed struct {
	Vehicles  []VehicleSeed  `yaml:"vehicles"`
	Contracts []ContractSeed `yaml:"contracts"`
	Bills     []BillSeed     `yaml:"bills"`
	Users     []UserSeed     `yaml:"users"`
}

type VehicleSeed struct {
	ID       string `yaml:"id"`
	Plate    string `yaml:"plate"`
	Model    string `yaml:"model"`
	Status   string `yaml:"status"`
	Image    string `yaml:"image"`
	Location struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"location"`
}

type ContractSeed struct {
	ID             string `yaml:"id"`
	VehicleID      string `yaml:"vehicleId"`
	StartDate      string `yaml:"startDate"`
	EndDate        string `yaml:"endDate"`
	MonthlyValue   string `yaml:"monthlyValue"`
	Status         string `yaml:"status"`
	FipeAdjustment string `yaml:"fipeAdjustment"`
}

type BillSeed struct {
	ID       string `yaml:"id"`
	Month    string `yaml:"month"`
	Value    string `yaml:"value"`
	Status   string `yaml:"status"`
	DueDate  string `yaml:"dueDate"`
	PaidDate string `yaml:"paidDate"`
}

// UserSeed accepts either a bcrypt hash or a clear text password, which is
// hashed on load.
type UserSeed struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"passwordHash"`
}

// LoadSeed reads a seed file, or the built-in fixtures when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		data = b
	}

	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &s, nil
}

// Load inserts every seeded entity, validating each one.
func (s *Store) Load(seed *Seed) error {
	for _, vs := range seed.Vehicles {
		v := &model.Vehicle{
			ID:       vs.ID,
			Plate:    vs.Plate,
			Model:    vs.Model,
			Status:   model.VehicleStatus(vs.Status),
			Image:    vs.Image,
			Location: model.Coordinate{Lat: vs.Location.Lat, Lng: vs.Location.Lng},
		}
		if err := s.vehicles.t.insert(v.ID, v); err != nil {
			return err
		}
	}

	for _, cs := range seed.Contracts {
		c, err := cs.toModel()
		if err != nil {
			return fmt.Errorf("contract %q: %w", cs.ID, err)
		}
		if err := s.contracts.t.insert(c.ID, c); err != nil {
			return err
		}
	}

	for _, bs := range seed.Bills {
		b, err := bs.toModel()
		if err != nil {
			return fmt.Errorf("bill %q: %w", bs.ID, err)
		}
		if err := s.bills.t.insert(b.ID, b); err != nil {
			return err
		}
	}

	for _, us := range seed.Users {
		u, err := us.toModel()
		if err != nil {
			return fmt.Errorf("user %q: %w", us.ID, err)
		}
		if err := s.users.t.insert(u.ID, u); err != nil {
			return err
		}
	}

	return nil
}

func (cs ContractSeed) toModel() (*model.Contract, error) {
	start, err := time.Parse(DateLayout, cs.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(DateLayout, cs.EndDate)
	if err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(cs.MonthlyValue)
	if err != nil {
		return nil, fmt.Errorf("monthly value: %w", err)
	}
	adjustment := decimal.Zero
	if cs.FipeAdjustment != "" {
		if adjustment, err = decimal.NewFromString(cs.FipeAdjustment); err != nil {
			return nil, fmt.Errorf("fipe adjustment: %w", err)
		}
	}

	c := &model.Contract{
		ID:             cs.ID,
		VehicleID:      cs.VehicleID,
		StartDate:      start,
		EndDate:        end,
		MonthlyValue:   value.Round(2),
		Status:         model.ContractStatus(cs.Status),
		FipeAdjustment: adjustment,
	}
	return c, c.Validate()
}

func (bs BillSeed) toModel() (*model.Bill, error) {
	due, err := time.Parse(DateLayout, bs.DueDate)
	if err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(bs.Value)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}

	b := &model.Bill{
		ID:      bs.ID,
		Month:   bs.Month,
		Value:   value.Round(2),
		DueDate: due,
		Status:  model.BillStatus(bs.Status),
	}
	if bs.PaidDate != "" {
		paid, err := time.Parse(DateLayout, bs.PaidDate)
		if err != nil {
			return nil, err
		}
		b.PaidDate = &paid
	}
	return b, b.Validate()
}

func (us UserSeed) toModel() (*model.User, error) {
	if us.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	hash := []byte(us.PasswordHash)
	if len(hash) == 0 {
		if us.Password == "" {
			return nil, fmt.Errorf("password or passwordHash is required")
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(us.Password), bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("password hash: %w", err)
	}

	return &model.User{
		ID:           us.ID,
		Name:         us.Name,
		Email:        us.Email,
		Phone:        us.Phone,
		PasswordHash: hash,
	}, nil
}
