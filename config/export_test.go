package config

// MergeDotEnvForTest exposes the .env merge step to the external test package.
var MergeDotEnvForTest = mergeDotEnv
