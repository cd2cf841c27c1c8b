package vault

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Store implementation using environment variables.
//
//	DOCCORE_VAULT_DRIVER: fs|s3|memory (default fs)
//	DOCCORE_VAULT_FS_ROOT: directory root when driver=fs (default ./vaultdata)
//	(S3 specific variables documented on OpenS3FromEnv)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("DOCCORE_VAULT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("DOCCORE_VAULT_FS_ROOT"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("vault: unknown driver %s", driver)
	}
}
