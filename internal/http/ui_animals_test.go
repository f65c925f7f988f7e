package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoohub/zookeeper-hub/internal/data"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/mocks"
	"github.com/zoohub/zookeeper-hub/internal/service"
	"go.uber.org/mock/gomock"
)

func newAnimalsUI(t *testing.T) (*AnimalsUI, *mocks.MockAnimalRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockAnimalRepository(ctrl)
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.NoError(t, err)

	ui := &AnimalsUI{
		UIBase: UIBase{Renderer: renderer},
		Svc:    service.NewAnimalService(service.AnimalServiceOptions{Animals: repo}),
	}
	return ui, repo
}

func animalForm(id string) url.Values {
	return url.Values{
		"id":            {id},
		"name":          {"Zuri"},
		"species":       {"Giraffe"},
		"age":           {"6"},
		"enclosure":     {"savanna-1"},
		"health_status": {"healthy"},
	}
}

func TestAnimalsUpdate_RedirectsOnSuccess(t *testing.T) {
	ui, repo := newAnimalsUI(t)
	repo.EXPECT().
		Update(gomock.Any(), "a1", gomock.Any()).
		DoAndReturn(func(_ any, _ string, req model.UpdateAnimalRequest) (*model.Animal, error) {
			require.NotNil(t, req.Name)
			assert.Equal(t, "Zuri", *req.Name)
			require.NotNil(t, req.Age)
			assert.Equal(t, 6, *req.Age)
			return &model.Animal{ID: "a1", Name: "Zuri"}, nil
		})

	rec := httptest.NewRecorder()
	ui.Update(rec, postForm("/animals/update", animalForm("a1")))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/animals", rec.Header().Get("Location"))
}

func TestAnimalsUpdate_UnknownAnimal(t *testing.T) {
	ui, repo := newAnimalsUI(t)
	repo.EXPECT().Update(gomock.Any(), "missing", gomock.Any()).Return(nil, data.ErrAnimalNotFound)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	ui.Update(rec, postForm("/animals/update", animalForm("missing")))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Animal not found.")
}

func TestAnimalsUpdate_BadAge(t *testing.T) {
	ui, repo := newAnimalsUI(t)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	form := animalForm("a1")
	form.Set("age", "six")
	rec := httptest.NewRecorder()
	ui.Update(rec, postForm("/animals/update", form))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "age must be a number")
}

func TestAnimalsPage_EditPrefillsForm(t *testing.T) {
	ui, repo := newAnimalsUI(t)
	zuri := &model.Animal{ID: "a1", Name: "Zuri", Species: "Giraffe", Age: 6, Enclosure: "savanna-1", HealthStatus: "healthy"}
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Animal{zuri}, nil)
	repo.EXPECT().GetByID(gomock.Any(), "a1").Return(zuri, nil)

	rec := httptest.NewRecorder()
	ui.Page(rec, httptest.NewRequest(http.MethodGet, "/animals?edit=a1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/animals/update"`)
	assert.Contains(t, body, `value="Zuri"`)
	assert.Contains(t, body, "Save changes")
}
