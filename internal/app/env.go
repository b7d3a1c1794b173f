package app

import (
    "errors"
    "io/fs"
    "strings"

    "github.com/joho/godotenv"
)

// LoadEnvFiles loads one or more dotenv files into the process environment.
// Later files override earlier ones. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        if err := godotenv.Overload(p); err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                continue
            }
            return err
        }
    }
    return nil
}
