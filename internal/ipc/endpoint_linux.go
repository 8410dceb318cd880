package ipc

// Linux exposes the abstract unix socket namespace ("@name").
const namespacedSupported = true
