package config

func DefaultTemplate() string {
	return `# stacksmith-docker configuration
#
# Precedence: flags > environment variables > config file > defaults
# Environment prefix: STACKSMITH_DOCKER_

# Stacksmith API root. Leave empty for the public service.
api_base: ""

# Output directory for the generated Dockerfile:
# - <output>/Dockerfile
output: ./stacksmith-deploy

# Enable debug logging
debug: false

# Component requirement: entity id, version operator, and version number.
# Operators: latest, dev, =, >, >=, <, <=, ~>
# latest/dev take no version number; all others require one.
component: ""
component_operator: latest
component_version: ""

# Operating system requirement, same shape as the component requirement.
os: ""
os_operator: latest
os_version: ""

# Flavor id to request, e.g. a cloud image flavor. Empty omits it.
flavor: ""
`
}
