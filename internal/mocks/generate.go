// Package mocks provides generated mocks for the core repository interfaces.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository ports in internal/core. The mocks are generated using
// go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockAnimalRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "id").Return(animal, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=repositories_mock.go github.com/zoohub/zookeeper-hub/internal/core UserRepository,AnimalRepository,FeedingLogRepository,MedicalLogRepository,CacheRepository
