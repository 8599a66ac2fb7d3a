// Package secret resolves credential references in configuration values.
//
// A value of the form
//
//	secretref:<provider>:<ref>
//
// is replaced by whatever the named Provider returns for ref. Two providers
// are built in: "env" reads another environment variable and "file" reads a
// mounted secret file (Docker and Kubernetes style). AgeProvider adds "age",
// which decrypts an age-encrypted file with a local identity. Any other value passes
// through unchanged, so PCO_SECRET can hold either the secret itself or
// secretref:file:/run/secrets/pco_secret.
//
// ExpandEnvStrict expands ${VAR} references in configuration files and fails
// on unset variables.
package secret
