package httpx

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

func testAnimal(name, species string) *model.Animal {
	return &model.Animal{
		ID:           "animal-" + name,
		Name:         name,
		Species:      species,
		Age:          4,
		Enclosure:    "Savanna North",
		HealthStatus: "healthy",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// Every page template must execute against its handler's data shape.
func TestTemplates_AllPagesRender(t *testing.T) {
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.NoError(t, err)

	admin := testSession("s1", domainauth.RoleAdmin)
	animal := testAnimal("Zuri", "Giraffe")
	feeding := &model.FeedingLog{AnimalName: "Zuri", FoodType: "browse", Quantity: "4 kg", FeedingTime: time.Now()}
	medical := &model.MedicalLog{AnimalID: animal.ID, Date: time.Now(), Diagnosis: "checkup", Treatment: "none"}
	staff := &model.StaffUser{ID: "u1", Email: "priya@zoo.test", FirstName: "Priya", Role: domainauth.RoleVet}

	cases := []struct {
		page string
		data PageData
		want string
	}{
		{"home", PageData{Title: "Home", Session: admin}, "signed in as"},
		{"home", PageData{Title: "Home"}, "Sign in to manage"},
		{"login", PageData{Title: "Sign in", Data: loginPageData{RedirectURI: "/", SSOEnabled: true}}, "single sign-on"},
		{"dashboard", PageData{Title: "Dashboard", Session: admin, Data: dashboardPageData{
			AnimalCount:    3,
			RecentFeedings: []*model.FeedingLog{feeding},
			RecentMedical:  []*model.MedicalLog{medical},
		}}, "3 on record"},
		{"animals", PageData{Title: "Animals", Session: admin, Data: animalsPageData{
			Animals: []*model.Animal{animal},
		}}, "Giraffe"},
		{"feeding", PageData{Title: "Feeding", Session: admin, Data: feedingPageData{
			Logs: []*model.FeedingLog{feeding},
		}}, "browse"},
		{"medical", PageData{Title: "Medical", Session: admin, Data: medicalPageData{
			Logs:        []*model.MedicalLog{medical},
			Animals:     []*model.Animal{animal},
			AnimalNames: map[string]string{animal.ID: animal.Name},
		}}, "checkup"},
		{"users", PageData{Title: "Staff", Session: admin, Data: usersPageData{
			Users: []*model.StaffUser{staff},
			Roles: assignableRoles(),
		}}, "priya@zoo.test"},
		{"research", PageData{Title: "Research", Session: admin, Data: researchPageData{
			Snapshot: &service.ResearchSnapshot{
				GeneratedAt:   time.Now(),
				AnimalCount:   1,
				SpeciesCounts: map[string]int{"Giraffe": 1},
			},
			Query:  "animals[].name",
			Result: `["Zuri"]`,
		}}, "Giraffe"},
		{"error", PageData{Title: "Not Found", Error: "Page not found."}, "Page not found."},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		renderErr := renderer.RenderPage(rec, tc.page, tc.data)
		require.NoError(t, renderErr, "page %s", tc.page)
		assert.Contains(t, rec.Body.String(), tc.want, "page %s", tc.page)
	}
}

func TestTemplates_NavMatchesRole(t *testing.T) {
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.NoError(t, err)

	keeper := testSession("s1", domainauth.RoleZookeeper)
	rec := httptest.NewRecorder()
	require.NoError(t, renderer.RenderPage(rec, "home", PageData{Title: "Home", Session: keeper}))

	body := rec.Body.String()
	assert.Contains(t, body, `href="/feeding"`)
	assert.NotContains(t, body, `href="/medical"`)
	assert.NotContains(t, body, `href="/users"`)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Admin", roleLabel(domainauth.RoleAdmin))
	assert.Equal(t, "Veterinarian", roleLabel(domainauth.RoleVet))
	assert.Equal(t, "Unassigned", roleLabel(domainauth.RoleUnassigned))
}
