package mocks

//go:generate mockery --name ColumnStore --srcpkg github.com/lodestar-lab/temporal-engine/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
