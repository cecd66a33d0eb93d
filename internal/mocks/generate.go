package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/tournament --output domain/tournament --outpkg tournamentmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Archive --dir ../domain/snapshot --output domain/snapshot --outpkg snapshotmock --filename archive_mock.go
