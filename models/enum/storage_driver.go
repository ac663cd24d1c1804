package enum

// StorageDriver 表示購物車持久化所使用的儲存
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverFile     StorageDriver = "file"
	StorageDriverRedis    StorageDriver = "redis"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverMongo    StorageDriver = "mongo"
)

func (d StorageDriver) Valid() bool {
	switch d {
	case StorageDriverMemory, StorageDriverFile, StorageDriverRedis, StorageDriverPostgres, StorageDriverMongo:
		return true
	}
	return false
}
