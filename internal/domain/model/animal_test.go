package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

func TestCreateAnimalRequest_Validate(t *testing.T) {
	req := CreateAnimalRequest{
		Name:         "Luna",
		Species:      "Snow Leopard",
		Age:          4,
		Enclosure:    "Himalaya Ridge",
		HealthStatus: "healthy",
	}
	assert.NoError(t, req.Validate())

	bad := req
	bad.Name = "  "
	assert.EqualError(t, bad.Validate(), "name is required and cannot be empty")

	bad = req
	bad.Species = ""
	assert.EqualError(t, bad.Validate(), "species is required and cannot be empty")

	bad = req
	bad.Age = -1
	assert.EqualError(t, bad.Validate(), "age must be non-negative")

	bad = req
	bad.Age = 301
	assert.EqualError(t, bad.Validate(), "age must be between 0 and 300")

	bad = req
	bad.Name = strings.Repeat("x", 256)
	assert.EqualError(t, bad.Validate(), "name cannot exceed 255 characters")

	bad = req
	bad.HealthStatus = ""
	assert.EqualError(t, bad.Validate(), "health status is required and cannot be empty")
}

func TestUpdateAnimalRequest_Validate(t *testing.T) {
	empty := UpdateAnimalRequest{}
	assert.False(t, empty.HasUpdates())
	assert.EqualError(t, empty.Validate(), "at least one field must be updated")

	name := "Rex"
	req := UpdateAnimalRequest{Name: &name}
	assert.True(t, req.HasUpdates())
	assert.NoError(t, req.Validate())

	blank := " "
	assert.Error(t, (&UpdateAnimalRequest{Enclosure: &blank}).Validate())
}

func TestCreateFeedingLogRequest_Validate(t *testing.T) {
	req := CreateFeedingLogRequest{
		AnimalName:  "Luna",
		FoodType:    "meat",
		Quantity:    "2kg",
		FeedingTime: time.Now(),
	}
	assert.NoError(t, req.Validate())

	bad := req
	bad.AnimalName = ""
	assert.Error(t, bad.Validate())

	bad = req
	bad.Quantity = " "
	assert.EqualError(t, bad.Validate(), "quantity is required and cannot be empty")

	bad = req
	bad.Notes = strings.Repeat("n", 2001)
	assert.EqualError(t, bad.Validate(), "notes cannot exceed 2000 characters")
}

func TestCreateMedicalLogRequest_Validate(t *testing.T) {
	req := CreateMedicalLogRequest{
		AnimalID:  "a-1",
		Date:      time.Now(),
		Diagnosis: "sprained paw",
		Treatment: "rest and anti-inflammatories",
	}
	assert.NoError(t, req.Validate())

	bad := req
	bad.AnimalID = ""
	assert.Error(t, bad.Validate())

	bad = req
	bad.Date = time.Time{}
	assert.EqualError(t, bad.Validate(), "date is required")

	bad = req
	bad.Treatment = ""
	assert.EqualError(t, bad.Validate(), "treatment is required and cannot be empty")
}

func TestCreateStaffUserRequest_Validate(t *testing.T) {
	req := CreateStaffUserRequest{
		Email:    "keeper@zoo.example",
		Role:     domainauth.RoleZookeeper,
		Password: "long-enough-secret",
	}
	assert.NoError(t, req.Validate())

	bad := req
	bad.Email = "not-an-address"
	assert.EqualError(t, bad.Validate(), "email must be a valid address")

	bad = req
	bad.Password = "short"
	assert.EqualError(t, bad.Validate(), "password must be at least 10 characters")

	bad = req
	bad.Role = domainauth.Role("director")
	assert.EqualError(t, bad.Validate(), "role must be one of: admin, zookeeper, vet, researcher")

	// Unassigned is allowed at creation; the admin assigns a role later.
	bad = req
	bad.Role = domainauth.RoleUnassigned
	assert.NoError(t, bad.Validate())
}
